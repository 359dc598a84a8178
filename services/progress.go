package services

import (
	"enrollsvc/models"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
)

// ProgressService computes and mutates per-lesson and aggregate course
// progress and derives course completion.
type ProgressService struct {
	db       *gorm.DB
	notifier Notifier
}

func NewProgressService(db *gorm.DB, notifier Notifier) *ProgressService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &ProgressService{db: db, notifier: notifier}
}

// ProgressView is the projection assembled from the enrollment and its
// most recent progress row
type ProgressView struct {
	EnrollmentID      string    `json:"enrollment_id"`
	Progress          int       `json:"progress"`
	CurrentLesson     *string   `json:"current_lesson"`
	LessonID          *string   `json:"lesson_id"`
	IsLessonCompleted bool      `json:"is_lesson_completed"`
	LastUpdated       time.Time `json:"last_updated"`
}

// ProgressUpdate carries a partial update. Nil means "leave unchanged",
// never "set to zero".
type ProgressUpdate struct {
	Progress          *int    `json:"progress"`
	CurrentLesson     *string `json:"current_lesson"`
	LessonID          *string `json:"lesson_id"`
	IsLessonCompleted *bool   `json:"is_lesson_completed"`
}

// OverallProgress is the read-only completion snapshot
type OverallProgress struct {
	OverallProgress int    `json:"overall_progress"`
	Completed       bool   `json:"completed"`
	Status          string `json:"status"`
}

// GetByEnrollmentID returns the progress projection for an enrollment
func (s *ProgressService) GetByEnrollmentID(enrollmentID string) (*ProgressView, error) {
	var enrollment models.Enrollment
	if err := s.db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		log.Printf("[PROGRESS] Enrollment not found with ID %s", enrollmentID)
		return nil, translateNotFound(err)
	}
	return s.buildView(&enrollment), nil
}

// Get returns the progress projection for the (user, course) pair
func (s *ProgressService) Get(userID, courseID string) (*ProgressView, error) {
	enrollment, err := s.findByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	return s.buildView(enrollment), nil
}

// UpdateByEnrollmentID applies a partial progress update. Enrollment fields
// are overwritten only when explicitly supplied; the per-lesson row is
// upserted; the aggregate is recomputed from the rows and course completion
// is derived (all lessons complete).
func (s *ProgressService) UpdateByEnrollmentID(enrollmentID string, update ProgressUpdate) (*ProgressView, error) {
	var enrollment models.Enrollment
	if err := s.db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		log.Printf("[PROGRESS] Enrollment not found with ID %s", enrollmentID)
		return nil, translateNotFound(err)
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if update.Progress != nil {
		updates["progress"] = *update.Progress
	}
	if update.CurrentLesson != nil {
		updates["current_lesson"] = *update.CurrentLesson
	}
	if err := s.db.Model(&enrollment).Updates(updates).Error; err != nil {
		return nil, err
	}

	lessonTouched := false
	if update.LessonID != nil || update.IsLessonCompleted != nil {
		if err := s.upsertLessonRow(&enrollment, update); err != nil {
			return nil, err
		}
		lessonTouched = true
	}

	if lessonTouched {
		if err := s.reconcileCompletion(&enrollment); err != nil {
			return nil, err
		}
	}

	return s.GetByEnrollmentID(enrollmentID)
}

// Update applies a partial progress update addressed by the unique
// (user, course) pair
func (s *ProgressService) Update(userID, courseID string, update ProgressUpdate) (*ProgressView, error) {
	enrollment, err := s.findByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	return s.UpdateByEnrollmentID(enrollment.ID, update)
}

// CheckCourseCompletion reports completion for the (user, course) pair
func (s *ProgressService) CheckCourseCompletion(userID, courseID string) (bool, error) {
	enrollment, err := s.findByUserAndCourse(userID, courseID)
	if err != nil {
		return false, err
	}
	return s.isComplete(enrollment.ID)
}

// CheckEnrollmentCompletion reports completion for an enrollment
func (s *ProgressService) CheckEnrollmentCompletion(enrollmentID string) (bool, error) {
	var enrollment models.Enrollment
	if err := s.db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return false, translateNotFound(err)
	}
	return s.isComplete(enrollment.ID)
}

// GetOverallProgress returns the completion snapshot for the (user, course)
// pair
func (s *ProgressService) GetOverallProgress(userID, courseID string) (*OverallProgress, error) {
	enrollment, err := s.findByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	return s.overall(enrollment)
}

// GetOverallProgressByEnrollmentID returns the completion snapshot for an
// enrollment
func (s *ProgressService) GetOverallProgressByEnrollmentID(enrollmentID string) (*OverallProgress, error) {
	var enrollment models.Enrollment
	if err := s.db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return s.overall(&enrollment)
}

func (s *ProgressService) findByUserAndCourse(userID, courseID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		log.Printf("[PROGRESS] Enrollment not found for user %s in course %s", userID, courseID)
		return nil, translateNotFound(err)
	}
	return &enrollment, nil
}

// buildView assembles the projection from the most recently touched lesson
// row. A momentarily missing row degrades to defaults instead of failing.
func (s *ProgressService) buildView(enrollment *models.Enrollment) *ProgressView {
	view := &ProgressView{
		EnrollmentID:  enrollment.ID,
		Progress:      enrollment.Progress,
		CurrentLesson: enrollment.CurrentLesson,
		LastUpdated:   enrollment.UpdatedAt,
	}

	var row models.UserProgress
	err := s.db.Where("enrollment_id = ?", enrollment.ID).
		Order("updated_at desc").First(&row).Error
	if err == nil {
		lessonID := row.LessonID
		view.LessonID = &lessonID
		view.IsLessonCompleted = row.IsCompleted
	}
	return view
}

// upsertLessonRow updates the addressed lesson row or creates it with
// supplied-or-default values
func (s *ProgressService) upsertLessonRow(enrollment *models.Enrollment, update ProgressUpdate) error {
	var row models.UserProgress
	var err error
	if update.LessonID != nil {
		err = s.db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, *update.LessonID).First(&row).Error
	} else {
		// Completion flag without a lesson addresses the most recent row
		err = s.db.Where("enrollment_id = ?", enrollment.ID).Order("updated_at desc").First(&row).Error
	}

	if err == nil {
		rowUpdates := map[string]interface{}{"updated_at": time.Now()}
		if update.IsLessonCompleted != nil {
			rowUpdates["is_completed"] = *update.IsLessonCompleted
		}
		if update.Progress != nil {
			rowUpdates["progress"] = *update.Progress
		}
		return s.db.Model(&row).Updates(rowUpdates).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if update.LessonID == nil {
		// Nothing to create without a lesson reference
		return nil
	}

	row = models.UserProgress{
		EnrollmentID: enrollment.ID,
		LessonID:     *update.LessonID,
	}
	if update.IsLessonCompleted != nil {
		row.IsCompleted = *update.IsLessonCompleted
	}
	if update.Progress != nil {
		row.Progress = *update.Progress
	}
	return s.db.Create(&row).Error
}

// reconcileCompletion recomputes the materialized aggregate and promotes
// the enrollment to COMPLETED when every lesson is complete
func (s *ProgressService) reconcileCompletion(enrollment *models.Enrollment) error {
	aggregate, complete, err := lessonAggregate(s.db, enrollment.ID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"progress": aggregate, "updated_at": time.Now()}
	promoting := false
	if complete && enrollment.Status != models.StatusCompleted {
		if canTransition(enrollment.Status, models.StatusCompleted) {
			log.Printf("[PROGRESS] All lessons complete, marking enrollment %s as COMPLETED", enrollment.ID)
			updates["status"] = models.StatusCompleted
			updates["completed_at"] = time.Now()
			promoting = true
		} else {
			log.Printf("[PROGRESS] All lessons complete but enrollment %s is %s, leaving status", enrollment.ID, enrollment.Status)
		}
	}

	if err := s.db.Model(&models.Enrollment{}).Where("id = ?", enrollment.ID).Updates(updates).Error; err != nil {
		return err
	}
	if promoting {
		s.notifier.CourseCompleted(enrollment.UserID, enrollment.UserName, enrollment.CourseName)
	}
	return nil
}

func (s *ProgressService) isComplete(enrollmentID string) (bool, error) {
	_, complete, err := lessonAggregate(s.db, enrollmentID)
	return complete, err
}

func (s *ProgressService) overall(enrollment *models.Enrollment) (*OverallProgress, error) {
	aggregate, complete, err := lessonAggregate(s.db, enrollment.ID)
	if err != nil {
		return nil, err
	}
	return &OverallProgress{
		OverallProgress: aggregate,
		Completed:       complete,
		Status:          enrollment.Status,
	}, nil
}

// lessonAggregate computes the materialized progress
// (completedLessons/totalLessons*100, 0 without lessons) and the completion
// rule (totalLessons > 0 && completedLessons == totalLessons). Both the
// write path and the check/overall read paths share this single
// definition.
func lessonAggregate(db *gorm.DB, enrollmentID string) (aggregate int, complete bool, err error) {
	var total, completed int64
	if err = db.Model(&models.UserProgress{}).Where("enrollment_id = ?", enrollmentID).Count(&total).Error; err != nil {
		return 0, false, err
	}
	if total == 0 {
		return 0, false, nil
	}
	if err = db.Model(&models.UserProgress{}).
		Where("enrollment_id = ? AND is_completed = ?", enrollmentID, true).Count(&completed).Error; err != nil {
		return 0, false, err
	}
	return int(completed * 100 / total), completed == total, nil
}
