package services

import (
	"enrollsvc/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProgressNotFound(t *testing.T) {
	svc := NewProgressService(newTestDB(t), nil)

	_, err := svc.GetByEnrollmentID("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Get("U1", "C1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProgressProjection(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewProgressService(db, nil)

	enrollment, err := enrollments.Create(CreateEnrollmentInput{
		CourseID: "C1", UserID: "U1", IsFree: true, LessonID: strPtr("L1"),
	})
	require.NoError(t, err)

	view, err := svc.GetByEnrollmentID(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, view.EnrollmentID)
	assert.Equal(t, 0, view.Progress)
	require.NotNil(t, view.LessonID)
	assert.Equal(t, "L1", *view.LessonID)
	assert.False(t, view.IsLessonCompleted)

	byPair, err := svc.Get("U1", "C1")
	require.NoError(t, err)
	assert.Equal(t, view.EnrollmentID, byPair.EnrollmentID)
}

func TestUpdateProgressPartialSemantics(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewProgressService(db, nil)

	enrollment, err := enrollments.Create(CreateEnrollmentInput{
		CourseID: "C1", UserID: "U1", IsFree: true, LessonID: strPtr("L1"),
	})
	require.NoError(t, err)

	// Supplying only progress must not clear the current lesson
	view, err := svc.UpdateByEnrollmentID(enrollment.ID, ProgressUpdate{Progress: intPtr(40)})
	require.NoError(t, err)
	assert.Equal(t, 40, view.Progress)
	require.NotNil(t, view.CurrentLesson)
	assert.Equal(t, "L1", *view.CurrentLesson)

	// Supplying only the lesson must not clear progress; the aggregate is
	// recomputed from the rows on lesson writes
	view, err = svc.UpdateByEnrollmentID(enrollment.ID, ProgressUpdate{CurrentLesson: strPtr("L2")})
	require.NoError(t, err)
	require.NotNil(t, view.CurrentLesson)
	assert.Equal(t, "L2", *view.CurrentLesson)
	assert.Equal(t, 40, view.Progress)
}

func TestUpdateProgressAutoCompletesSingleLesson(t *testing.T) {
	db := newTestDB(t)
	notifier := &recordingNotifier{}
	enrollments := NewEnrollmentService(db, nil)
	svc := NewProgressService(db, notifier)

	enrollment, err := enrollments.Create(CreateEnrollmentInput{
		CourseID: "C1", UserID: "U1", IsFree: true, LessonID: strPtr("L1"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, enrollment.Status)
	assert.Equal(t, 0, enrollment.Progress)

	view, err := svc.UpdateByEnrollmentID(enrollment.ID, ProgressUpdate{
		LessonID:          strPtr("L1"),
		IsLessonCompleted: boolPtr(true),
		Progress:          intPtr(100),
	})
	require.NoError(t, err)
	assert.Equal(t, 100, view.Progress)
	assert.True(t, view.IsLessonCompleted)

	stored, err := enrollments.GetByID(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)
	assert.Equal(t, 1, notifier.completedCount())

	overall, err := svc.GetOverallProgress("U1", "C1")
	require.NoError(t, err)
	assert.True(t, overall.Completed)
	assert.Equal(t, models.StatusCompleted, overall.Status)
	assert.Equal(t, 100, overall.OverallProgress)
}

func TestUpdateProgressMultiLessonAggregate(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewProgressService(db, nil)

	enrollment, err := enrollments.Create(CreateEnrollmentInput{
		CourseID: "C1", UserID: "U1", IsFree: true, LessonID: strPtr("L1"),
	})
	require.NoError(t, err)

	// Touch a second lesson; nothing complete yet
	view, err := svc.UpdateByEnrollmentID(enrollment.ID, ProgressUpdate{LessonID: strPtr("L2")})
	require.NoError(t, err)
	assert.Equal(t, 0, view.Progress)

	// Completing one of two lessons lands at 50, no completion
	_, err = svc.UpdateByEnrollmentID(enrollment.ID, ProgressUpdate{
		LessonID: strPtr("L1"), IsLessonCompleted: boolPtr(true),
	})
	require.NoError(t, err)

	stored, err := enrollments.GetByID(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Progress)
	assert.Equal(t, models.StatusActive, stored.Status)

	complete, err := svc.CheckEnrollmentCompletion(enrollment.ID)
	require.NoError(t, err)
	assert.False(t, complete)

	// Completing the second finishes the course
	_, err = svc.UpdateByEnrollmentID(enrollment.ID, ProgressUpdate{
		LessonID: strPtr("L2"), IsLessonCompleted: boolPtr(true),
	})
	require.NoError(t, err)

	stored, err = enrollments.GetByID(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Progress)
	assert.Equal(t, models.StatusCompleted, stored.Status)
	require.NotNil(t, stored.CompletedAt)

	complete, err = svc.CheckEnrollmentCompletion(enrollment.ID)
	require.NoError(t, err)
	assert.True(t, complete)
}

func TestUpdateProgressUpsertsLessonRow(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewProgressService(db, nil)

	enrollment, err := enrollments.Create(CreateEnrollmentInput{CourseID: "C1", UserID: "U1", IsFree: true})
	require.NoError(t, err)

	// No row yet; the update creates one with supplied-or-default values
	_, err = svc.UpdateByEnrollmentID(enrollment.ID, ProgressUpdate{LessonID: strPtr("L1"), Progress: intPtr(25)})
	require.NoError(t, err)

	var row models.UserProgress
	require.NoError(t, db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, "L1").First(&row).Error)
	assert.Equal(t, 25, row.Progress)
	assert.False(t, row.IsCompleted)

	// Updating the same lesson mutates the row instead of duplicating it
	_, err = svc.UpdateByEnrollmentID(enrollment.ID, ProgressUpdate{LessonID: strPtr("L1"), Progress: intPtr(80)})
	require.NoError(t, err)

	var count int64
	db.Model(&models.UserProgress{}).Where("enrollment_id = ?", enrollment.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, "L1").First(&row).Error)
	assert.Equal(t, 80, row.Progress)
}

func TestCompletionFlagWithoutLessonTargetsMostRecentRow(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewProgressService(db, nil)

	enrollment, err := enrollments.Create(CreateEnrollmentInput{
		CourseID: "C1", UserID: "U1", IsFree: true, LessonID: strPtr("L1"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateByEnrollmentID(enrollment.ID, ProgressUpdate{IsLessonCompleted: boolPtr(true)})
	require.NoError(t, err)

	var row models.UserProgress
	require.NoError(t, db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, "L1").First(&row).Error)
	assert.True(t, row.IsCompleted)
}

func TestCheckCourseCompletionNoLessons(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewProgressService(db, nil)

	_, err := enrollments.Create(CreateEnrollmentInput{CourseID: "C1", UserID: "U1", IsFree: true})
	require.NoError(t, err)

	// A course with no touched lessons is never complete
	complete, err := svc.CheckCourseCompletion("U1", "C1")
	require.NoError(t, err)
	assert.False(t, complete)

	overall, err := svc.GetOverallProgress("U1", "C1")
	require.NoError(t, err)
	assert.Equal(t, 0, overall.OverallProgress)
	assert.False(t, overall.Completed)
	assert.Equal(t, models.StatusActive, overall.Status)
}

func TestUpdateProgressByUserAndCourse(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewProgressService(db, nil)

	enrollment, err := enrollments.Create(CreateEnrollmentInput{CourseID: "C1", UserID: "U1", IsFree: true})
	require.NoError(t, err)

	view, err := svc.Update("U1", "C1", ProgressUpdate{LessonID: strPtr("L1"), Progress: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, enrollment.ID, view.EnrollmentID)

	_, err = svc.Update("U9", "C1", ProgressUpdate{Progress: intPtr(10)})
	assert.ErrorIs(t, err, ErrNotFound)
}
