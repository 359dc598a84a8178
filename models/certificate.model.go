package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// Exactly one per completed enrollment; re-issuing updates in place.
type Certificate struct {
	ID                string            `json:"id" gorm:"primaryKey;size:36"`
	EnrollmentID      string            `json:"enrollment_id" gorm:"size:36;not null;uniqueIndex"`
	CertificateURL    string            `json:"certificate_url"`
	CertificateNumber string            `json:"certificate_number" gorm:"size:32;uniqueIndex"`
	Metadata          datatypes.JSONMap `json:"metadata"`
	IssuedAt          time.Time         `json:"issued_at"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
