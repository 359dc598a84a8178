package main

import (
	"enrollsvc/config"
	"enrollsvc/database"
	"enrollsvc/models"
	"log"
	"time"
)

// Seeds demo data: a completed free enrollment with a certificate, an
// active paid enrollment mid-course, and a pending paid enrollment.
// Run with: go run ./scripts
func main() {
	config.LoadConfig()
	db := database.ConnectDb()

	log.Println("Cleaning up existing data...")
	db.Where("1 = 1").Delete(&models.UserProgress{})
	db.Where("1 = 1").Delete(&models.Certificate{})
	db.Where("1 = 1").Delete(&models.PaymentEvent{})
	db.Where("1 = 1").Delete(&models.Enrollment{})

	log.Println("Creating test data...")
	now := time.Now()

	completed := models.Enrollment{
		CourseID:    "FREE-COURSE-1",
		UserID:      "USER-1",
		CourseName:  "JavaScript Basics",
		UserName:    "Alice Nguyen",
		IsFree:      true,
		Status:      models.StatusCompleted,
		Progress:    100,
		CompletedAt: &now,
	}
	if err := db.Create(&completed).Error; err != nil {
		log.Fatalf("Failed to seed completed enrollment: %v", err)
	}
	for _, lessonID := range []string{"LESSON-1-1", "LESSON-1-2", "LESSON-1-3"} {
		db.Create(&models.UserProgress{
			EnrollmentID: completed.ID,
			LessonID:     lessonID,
			IsCompleted:  true,
			Progress:     100,
		})
	}
	db.Create(&models.Certificate{
		EnrollmentID:      completed.ID,
		CertificateURL:    "/certificates/cert-js-basic.pdf",
		CertificateNumber: "CERT-2026-SEED0001",
		IssuedAt:          now,
		Metadata: map[string]interface{}{
			"user_id":     completed.UserID,
			"course_id":   completed.CourseID,
			"user_name":   completed.UserName,
			"course_name": completed.CourseName,
		},
	})
	log.Printf("Created completed enrollment: %s", completed.ID)

	paymentID := "PAY-SEED-1"
	lesson := "LESSON-2-1"
	active := models.Enrollment{
		CourseID:      "PAID-COURSE-1",
		UserID:        "USER-2",
		CourseName:    "Advanced Go",
		UserName:      "Bob Tran",
		Status:        models.StatusActive,
		PaymentID:     &paymentID,
		Progress:      50,
		CurrentLesson: &lesson,
	}
	if err := db.Create(&active).Error; err != nil {
		log.Fatalf("Failed to seed active enrollment: %v", err)
	}
	db.Create(&models.UserProgress{
		EnrollmentID: active.ID,
		LessonID:     "LESSON-2-1",
		IsCompleted:  true,
		Progress:     100,
	})
	db.Create(&models.UserProgress{
		EnrollmentID: active.ID,
		LessonID:     "LESSON-2-2",
		IsCompleted:  false,
		Progress:     30,
	})
	log.Printf("Created active enrollment: %s", active.ID)

	pending := models.Enrollment{
		CourseID:   "PAID-COURSE-2",
		UserID:     "USER-3",
		CourseName: "Distributed Systems",
		UserName:   "Carol Le",
		Status:     models.StatusPending,
	}
	if err := db.Create(&pending).Error; err != nil {
		log.Fatalf("Failed to seed pending enrollment: %v", err)
	}
	log.Printf("Created pending enrollment: %s", pending.ID)

	log.Println("Seed completed successfully.")
}
