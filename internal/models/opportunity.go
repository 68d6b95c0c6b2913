package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type RequirementType string

const (
	RequirementRequired  RequirementType = "required"
	RequirementPreferred RequirementType = "preferred"
)

type Opportunity struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title        string    `gorm:"type:text;not null" json:"title"`
	Organization string    `gorm:"type:text;not null" json:"organization"`
	Description  string    `gorm:"type:text" json:"description"`
	Location     string    `gorm:"type:text" json:"location"`
	CreatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt    time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Relations
	Skills       []OpportunitySkill       `gorm:"foreignKey:OpportunityID" json:"skills,omitempty"`
	Requirements []OpportunityRequirement `gorm:"foreignKey:OpportunityID" json:"requirements,omitempty"`
}

func (Opportunity) TableName() string {
	return "opportunities"
}

// DisplayName renders the opportunity for match listings.
func (o *Opportunity) DisplayName() string {
	if o.Organization == "" {
		return o.Title
	}
	return o.Title + " at " + o.Organization
}

type OpportunitySkill struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OpportunityID uuid.UUID        `gorm:"type:uuid;not null;index" json:"opportunity_id"`
	Name          string           `gorm:"type:text;not null" json:"name"`
	Requirement   RequirementType  `gorm:"type:text;not null;default:'required'" json:"requirement"`
	Embedding     *pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	CreatedAt     time.Time        `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (OpportunitySkill) TableName() string {
	return "opportunity_skills"
}

// OpportunityRequirement is a free-text experience requirement with its
// pre-computed embedding.
type OpportunityRequirement struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OpportunityID uuid.UUID        `gorm:"type:uuid;not null;index" json:"opportunity_id"`
	Text          string           `gorm:"type:text;not null" json:"text"`
	Embedding     *pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	CreatedAt     time.Time        `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (OpportunityRequirement) TableName() string {
	return "opportunity_requirements"
}
