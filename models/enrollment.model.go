package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment statuses
const (
	StatusPending   = "PENDING"   // awaiting payment confirmation
	StatusActive    = "ACTIVE"    // learner may consume content
	StatusCompleted = "COMPLETED" // terminal, certificate eligible
	StatusCancelled = "CANCELLED" // terminal, payment cancelled/expired
	StatusFailed    = "FAILED"    // terminal, payment failed
)

// Enrollment tracks a user's enrollment in a course with aggregate progress
type Enrollment struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	UserID        string     `json:"user_id" gorm:"size:64;not null;uniqueIndex:idx_user_course"`
	CourseID      string     `json:"course_id" gorm:"size:64;not null;uniqueIndex:idx_user_course"`
	UserName      string     `json:"user_name"`
	CourseName    string     `json:"course_name"`
	IsFree        bool       `json:"is_free" gorm:"default:false"`
	Status        string     `json:"status" gorm:"size:16;default:'PENDING';index"`
	PaymentID     *string    `json:"payment_id" gorm:"index"`
	Progress      int        `json:"progress" gorm:"default:0"` // Completion percentage (0-100)
	CurrentLesson *string    `json:"current_lesson"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Certificate  *Certificate   `json:"certificate,omitempty" gorm:"foreignKey:EnrollmentID"`
	UserProgress []UserProgress `json:"user_progress,omitempty" gorm:"foreignKey:EnrollmentID"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// IsTerminal reports whether the status admits no further transitions
func IsTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// ValidStatus reports whether s is a member of the status enum
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusCancelled, StatusFailed:
		return true
	}
	return false
}
