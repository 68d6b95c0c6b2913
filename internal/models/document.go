package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded resume PDF attached to a profile.
type Document struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ProfileID        uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"`
	Filename         string    `gorm:"type:text" json:"filename"`
	OriginalFileName string    `gorm:"type:text" json:"original_filename"`
	FileType         string    `gorm:"type:text" json:"file_type"`
	FilePath         string    `gorm:"type:text" json:"file_path"`
	PageCount        int       `gorm:"default:0" json:"page_count"`
	CreatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
	UpdatedAt        time.Time `gorm:"type:timestamp;default:now()" json:"updated_at"`
}

func (d *Document) TableName() string {
	return "documents"
}
