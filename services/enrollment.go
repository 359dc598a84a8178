package services

import (
	"enrollsvc/models"
	"errors"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// EnrollmentService owns the enrollment lifecycle state machine and the
// webhook reconciliation paths.
type EnrollmentService struct {
	db       *gorm.DB
	notifier Notifier

	// FanoutWorkers bounds the concurrency of the new-lesson fan-out
	FanoutWorkers int
}

func NewEnrollmentService(db *gorm.DB, notifier Notifier) *EnrollmentService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &EnrollmentService{db: db, notifier: notifier, FanoutWorkers: 8}
}

// CreateEnrollmentInput carries the create request. Optional fields are
// pointers or zero values.
type CreateEnrollmentInput struct {
	CourseID   string
	UserID     string
	IsFree     bool
	CourseName string
	UserName   string
	PaymentID  *string
	Status     string // explicit initial status, overrides the derivation
	LessonID   *string
}

// Create persists a new enrollment. Initial status priority: explicit
// status > free course > payment present > PENDING. The uniqueness
// violation on (user, course) is the only error that aborts the operation;
// the initial progress row and the confirmation email are best effort.
func (s *EnrollmentService) Create(in CreateEnrollmentInput) (*models.Enrollment, error) {
	status := models.StatusPending
	switch {
	case in.Status != "":
		status = in.Status
	case in.IsFree:
		status = models.StatusActive
	case in.PaymentID != nil && *in.PaymentID != "":
		status = models.StatusActive
	}

	enrollment := models.Enrollment{
		CourseID:      in.CourseID,
		UserID:        in.UserID,
		CourseName:    in.CourseName,
		UserName:      in.UserName,
		IsFree:        in.IsFree,
		Status:        status,
		PaymentID:     in.PaymentID,
		CurrentLesson: in.LessonID,
		Progress:      0,
	}
	if status == models.StatusCompleted {
		now := time.Now()
		enrollment.CompletedAt = &now
	}

	if err := s.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEnrollment
		}
		log.Printf("[ENROLLMENT] Failed to create enrollment for user %s course %s: %v", in.UserID, in.CourseID, err)
		return nil, err
	}

	if in.LessonID != nil && *in.LessonID != "" {
		progress := models.UserProgress{
			EnrollmentID: enrollment.ID,
			LessonID:     *in.LessonID,
			IsCompleted:  false,
			Progress:     0,
		}
		if err := s.db.Create(&progress).Error; err != nil {
			// Not fatal to the enrollment
			log.Printf("[ENROLLMENT] Failed to create user progress for enrollment %s: %v", enrollment.ID, err)
		}
	} else {
		log.Printf("[ENROLLMENT] No lesson provided for enrollment %s, skipping progress row", enrollment.ID)
	}

	if status == models.StatusActive {
		s.notifier.EnrollmentConfirmed(in.UserID, in.UserName, in.CourseID, in.CourseName)
	}

	return &enrollment, nil
}

// GetByID returns the enrollment with its certificate and progress rows
func (s *EnrollmentService) GetByID(id string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.Preload("Certificate").Preload("UserProgress").
		Where("id = ?", id).First(&enrollment).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &enrollment, nil
}

// FindByUserAndCourse returns the enrollment for the unique (user, course)
// pair with its certificate and progress rows
func (s *EnrollmentService) FindByUserAndCourse(userID, courseID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.Preload("Certificate").Preload("UserProgress").
		Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &enrollment, nil
}

// List returns enrollments filtered by optional user and status
func (s *EnrollmentService) List(userID, status string) ([]models.Enrollment, error) {
	query := s.db.Preload("Certificate").Order("created_at desc")
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var enrollments []models.Enrollment
	if err := query.Find(&enrollments).Error; err != nil {
		return nil, err
	}
	return enrollments, nil
}

// CheckEnrolled reports whether the user holds a consumable enrollment in
// the course (ACTIVE or COMPLETED)
func (s *EnrollmentService) CheckEnrolled(userID, courseID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status IN ?", userID, courseID,
			[]string{models.StatusActive, models.StatusCompleted}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpdateStatus applies an explicit status transition. Moves out of terminal
// states are rejected with ErrInvalidTransition. COMPLETED stamps
// completedAt.
func (s *EnrollmentService) UpdateStatus(id, newStatus string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := s.db.Where("id = ?", id).First(&enrollment).Error; err != nil {
		return nil, translateNotFound(err)
	}

	if !canTransition(enrollment.Status, newStatus) {
		return nil, ErrInvalidTransition
	}

	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_at": time.Now(),
	}
	if newStatus == models.StatusCompleted {
		updates["completed_at"] = time.Now()
	}

	if err := s.db.Model(&enrollment).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("id = ?", id).First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// PaymentUpdateInput is a payment webhook payload after transport parsing
type PaymentUpdateInput struct {
	PaymentID   string
	CourseID    string
	ServiceType string // empty or "course"
	Status      string
	LessonID    *string
	Metadata    map[string]interface{}
}

// PaymentUpdateResult reports what the webhook did. Matched is false when
// no enrollment carried the payment ID; the event is stored for the
// reconciler and the webhook still succeeds (at-least-once tolerance).
type PaymentUpdateResult struct {
	Matched    bool               `json:"matched"`
	Enrollment *models.Enrollment `json:"enrollment,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// ProcessPaymentUpdate reconciles a payment webhook against the enrollment
// carrying its payment ID. Idempotent under redelivery: re-applying an
// already-applied mapped status writes the same value.
func (s *EnrollmentService) ProcessPaymentUpdate(in PaymentUpdateInput) (*PaymentUpdateResult, error) {
	if in.ServiceType != "" && in.ServiceType != "course" {
		return nil, ErrUnsupportedEvent
	}

	log.Printf("[ENROLLMENT] Processing payment update for payment %s, course %s, status %s",
		in.PaymentID, in.CourseID, in.Status)

	var enrollment models.Enrollment
	err := s.db.Where("payment_id = ?", in.PaymentID).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[ENROLLMENT] No enrollment found with payment ID %s, storing for reconciliation", in.PaymentID)
			s.recordOrphanPayment(in)
			return &PaymentUpdateResult{Matched: false, Message: "No enrollment found with this payment ID"}, nil
		}
		return nil, err
	}

	if err := s.applyPayment(&enrollment, in); err != nil {
		return nil, err
	}
	if err := s.db.Where("id = ?", enrollment.ID).First(&enrollment).Error; err != nil {
		return nil, err
	}
	return &PaymentUpdateResult{Matched: true, Enrollment: &enrollment}, nil
}

// applyPayment writes the mapped status and lesson onto the enrollment and
// converges on the ensure-a-progress-row-exists invariant shared with
// Create.
func (s *EnrollmentService) applyPayment(enrollment *models.Enrollment, in PaymentUpdateInput) error {
	mapped := statusForPayment(in.Status, enrollment.Status)
	if !canTransition(enrollment.Status, mapped) {
		log.Printf("[ENROLLMENT] Ignoring payment %s status %s: enrollment %s is %s",
			in.PaymentID, in.Status, enrollment.ID, enrollment.Status)
		mapped = enrollment.Status
	}

	lessonID := enrollment.CurrentLesson
	if in.LessonID != nil && *in.LessonID != "" {
		lessonID = in.LessonID
	} else if meta, ok := in.Metadata["lesson_id"].(string); ok && meta != "" {
		lessonID = &meta
	}

	updates := map[string]interface{}{
		"status":     mapped,
		"updated_at": time.Now(),
		"progress":   enrollment.Progress, // never null
	}
	if lessonID != nil {
		updates["current_lesson"] = *lessonID
	}

	if err := s.db.Model(enrollment).Updates(updates).Error; err != nil {
		return err
	}

	if mapped == models.StatusActive && lessonID != nil {
		var count int64
		s.db.Model(&models.UserProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&count)
		if count == 0 {
			progress := models.UserProgress{
				EnrollmentID: enrollment.ID,
				LessonID:     *lessonID,
				IsCompleted:  false,
				Progress:     0,
			}
			if err := s.db.Create(&progress).Error; err != nil {
				log.Printf("[ENROLLMENT] Failed to create user progress for enrollment %s: %v", enrollment.ID, err)
			} else if aggregate, _, err := lessonAggregate(s.db, enrollment.ID); err == nil {
				s.db.Model(enrollment).Update("progress", aggregate)
			}
		}
	}

	return nil
}

// FanoutResult reports the new-lesson fan-out. Found counts eligible
// enrollments; Updated counts the ones whose writes actually succeeded.
type FanoutResult struct {
	Found   int `json:"found"`
	Updated int `json:"updated"`
}

// AddNewLessonToAllEnrollments points every ACTIVE enrollment of the course
// at the new lesson and seeds a progress row for it. Per-enrollment
// failures are logged and do not abort the rest; writes run on a bounded
// worker pool.
func (s *EnrollmentService) AddNewLessonToAllEnrollments(courseID, lessonID, lessonTitle string) (*FanoutResult, error) {
	log.Printf("[ENROLLMENT] Adding new lesson %s to all enrollments for course %s", lessonID, courseID)

	var enrollments []models.Enrollment
	err := s.db.Where("course_id = ? AND status = ?", courseID, models.StatusActive).
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	log.Printf("[ENROLLMENT] Found %d active enrollments for course %s", len(enrollments), courseID)

	workers := s.FanoutWorkers
	if workers < 1 {
		workers = 1
	}

	var updated int64
	var group errgroup.Group
	group.SetLimit(workers)

	for i := range enrollments {
		enrollment := enrollments[i]
		group.Go(func() error {
			if err := s.attachLesson(&enrollment, lessonID); err != nil {
				log.Printf("[ENROLLMENT] Error updating progress for enrollment %s: %v", enrollment.ID, err)
				return nil // isolate the failure
			}
			atomic.AddInt64(&updated, 1)
			s.notifier.NewLessonPublished(enrollment.UserID, enrollment.UserName, enrollment.CourseName, lessonTitle)
			return nil
		})
	}
	_ = group.Wait()

	return &FanoutResult{Found: len(enrollments), Updated: int(updated)}, nil
}

// attachLesson moves the enrollment's current lesson and upserts the
// per-lesson progress row for it
func (s *EnrollmentService) attachLesson(enrollment *models.Enrollment, lessonID string) error {
	updates := map[string]interface{}{
		"current_lesson": lessonID,
		"updated_at":     time.Now(),
		"progress":       enrollment.Progress,
	}
	if err := s.db.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).Updates(updates).Error; err != nil {
		return err
	}

	var existing models.UserProgress
	err := s.db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lessonID).First(&existing).Error
	if err == nil {
		if err := s.db.Model(&existing).Updates(map[string]interface{}{
			"is_completed": false,
			"updated_at":   time.Now(),
		}).Error; err != nil {
			return err
		}
		aggregate, _, err := lessonAggregate(s.db, enrollment.ID)
		if err != nil {
			return err
		}
		return s.db.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).
			Update("progress", aggregate).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	progress := models.UserProgress{
		EnrollmentID: enrollment.ID,
		LessonID:     lessonID,
		IsCompleted:  false,
		Progress:     0,
	}
	if err := s.db.Create(&progress).Error; err != nil {
		return err
	}

	// A new lesson dilutes the materialized aggregate
	aggregate, _, err := lessonAggregate(s.db, enrollment.ID)
	if err != nil {
		return err
	}
	return s.db.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).
		Update("progress", aggregate).Error
}
