package services

import (
	"enrollsvc/models"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var testDbSeq int64

// newTestDB opens a fresh in-memory sqlite database with the production
// schema. TranslateError matches the production gorm config so uniqueness
// violations surface the same way.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:enrollsvc_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Enrollment{},
		&models.UserProgress{},
		&models.Certificate{},
		&models.PaymentEvent{},
	))
	return db
}

// recordingNotifier captures notification triggers for assertions
type recordingNotifier struct {
	mu         sync.Mutex
	confirmed  []string // user IDs
	newLessons []string // lesson titles
	completed  []string // user IDs
}

func (n *recordingNotifier) EnrollmentConfirmed(userID, userName, courseID, courseName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, userID)
}

func (n *recordingNotifier) NewLessonPublished(userID, userName, courseName, lessonTitle string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.newLessons = append(n.newLessons, lessonTitle)
}

func (n *recordingNotifier) CourseCompleted(userID, userName, courseName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, userID)
}

func (n *recordingNotifier) confirmedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.confirmed)
}

func (n *recordingNotifier) newLessonCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.newLessons)
}

func (n *recordingNotifier) completedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.completed)
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
func boolPtr(b bool) *bool    { return &b }
