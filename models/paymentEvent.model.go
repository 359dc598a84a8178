package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// PaymentEvent stores a payment webhook that arrived before the enrollment
// carrying its payment ID existed. The reconciler replays pending events
// until they match or expire. PaymentID is unique so redelivery of the
// same orphan event collapses into one row.
type PaymentEvent struct {
	ID        string            `json:"id" gorm:"primaryKey;size:36"`
	PaymentID string            `json:"payment_id" gorm:"size:64;not null;uniqueIndex"`
	CourseID  string            `json:"course_id" gorm:"size:64;index"`
	Status    string            `json:"status" gorm:"size:16"`
	LessonID  *string           `json:"lesson_id"`
	Metadata  datatypes.JSONMap `json:"metadata"`
	Applied   bool              `json:"applied" gorm:"default:false;index"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (e *PaymentEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
