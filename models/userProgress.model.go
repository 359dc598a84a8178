package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserProgress tracks one lesson within one enrollment. An enrollment owns
// one row per lesson it has touched; the pair is unique.
type UserProgress struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	EnrollmentID string    `json:"enrollment_id" gorm:"size:36;not null;uniqueIndex:idx_enrollment_lesson"`
	LessonID     string    `json:"lesson_id" gorm:"size:64;not null;uniqueIndex:idx_enrollment_lesson"`
	IsCompleted  bool      `json:"is_completed" gorm:"default:false"`
	Progress     int       `json:"progress" gorm:"default:0"` // 0-100 within the lesson
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (p *UserProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
