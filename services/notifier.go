package services

// Notifier is the outbound mail side-channel. Implementations dispatch in
// the background and swallow their own failures; the engines never block on
// or fail because of a notification.
type Notifier interface {
	EnrollmentConfirmed(userID, userName, courseID, courseName string)
	NewLessonPublished(userID, userName, courseName, lessonTitle string)
	CourseCompleted(userID, userName, courseName string)
}

// NopNotifier discards every notification
type NopNotifier struct{}

func (NopNotifier) EnrollmentConfirmed(userID, userName, courseID, courseName string) {}
func (NopNotifier) NewLessonPublished(userID, userName, courseName, lessonTitle string) {}
func (NopNotifier) CourseCompleted(userID, userName, courseName string) {}
