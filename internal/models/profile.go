package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type EvidenceLevel string

const (
	EvidenceStated      EvidenceLevel = "stated"
	EvidenceExperienced EvidenceLevel = "experienced"
	EvidenceEvidenced   EvidenceLevel = "evidenced"
)

type Profile struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	FullName    string    `gorm:"type:text;not null" json:"full_name"`
	Headline    string    `gorm:"type:text" json:"headline"`
	Location    string    `gorm:"type:text" json:"location"`
	SummaryText string    `gorm:"type:text" json:"summary_text"`
	CreatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Relations
	Skills      []ProfileSkill `gorm:"foreignKey:ProfileID" json:"skills,omitempty"`
	Experiences []Experience   `gorm:"foreignKey:ProfileID" json:"experiences,omitempty"`
}

func (Profile) TableName() string {
	return "profiles"
}

type ProfileSkill struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProfileID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"profile_id"`
	Name          string           `gorm:"type:text;not null" json:"name"`
	EvidenceLevel EvidenceLevel    `gorm:"type:text;not null;default:'stated'" json:"evidence_level"`
	Embedding     *pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	CreatedAt     time.Time        `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt     time.Time        `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (ProfileSkill) TableName() string {
	return "profile_skills"
}

// Experience is a time-boxed role on a profile. A nil EndDate means the
// role is still current.
type Experience struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProfileID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"profile_id"`
	Title        string           `gorm:"type:text;not null" json:"title"`
	Organization string           `gorm:"type:text" json:"organization"`
	Description  string           `gorm:"type:text" json:"description"`
	StartDate    time.Time        `gorm:"type:date" json:"start_date"`
	EndDate      *time.Time       `gorm:"type:date" json:"end_date,omitempty"`
	Embedding    *pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	CreatedAt    time.Time        `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"type:timestamp;default:now()" json:"updated_at"`

	// Relations
	Skills []ExperienceSkill `gorm:"foreignKey:ExperienceID" json:"skills,omitempty"`
}

func (Experience) TableName() string {
	return "experiences"
}

// IsCurrent reports whether the role has no end date.
func (e *Experience) IsCurrent() bool {
	return e.EndDate == nil
}

// ExperienceSkill is a skill usage scoped to a specific time-boxed role.
type ExperienceSkill struct {
	ID           uuid.UUID        `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ExperienceID uuid.UUID        `gorm:"type:uuid;not null;index" json:"experience_id"`
	Name         string           `gorm:"type:text;not null" json:"name"`
	Embedding    *pgvector.Vector `gorm:"type:vector(768)" json:"-"`
	CreatedAt    time.Time        `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (ExperienceSkill) TableName() string {
	return "experience_skills"
}
