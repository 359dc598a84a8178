package services

import (
	"enrollsvc/models"
	"errors"
	"log"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// recordOrphanPayment stores a payment webhook that matched no enrollment.
// Redelivery of the same payment ID collapses into the existing row. A
// storage failure only loses the replay opportunity, so it is logged, not
// propagated.
func (s *EnrollmentService) recordOrphanPayment(in PaymentUpdateInput) {
	event := models.PaymentEvent{
		PaymentID: in.PaymentID,
		CourseID:  in.CourseID,
		Status:    in.Status,
		LessonID:  in.LessonID,
		Metadata:  datatypes.JSONMap(in.Metadata),
	}
	if err := s.db.Create(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Same orphan delivered again; refresh the reported status
			s.db.Model(&models.PaymentEvent{}).
				Where("payment_id = ? AND applied = ?", in.PaymentID, false).
				Updates(map[string]interface{}{"status": in.Status, "updated_at": time.Now()})
			return
		}
		log.Printf("[RECONCILER] Failed to store orphan payment event %s: %v", in.PaymentID, err)
	}
}

// ReconcileOrphanPayments replays pending payment events against
// enrollments created since the event arrived. Returns how many events
// were applied.
func (s *EnrollmentService) ReconcileOrphanPayments() (int, error) {
	var events []models.PaymentEvent
	if err := s.db.Where("applied = ?", false).Order("created_at asc").Find(&events).Error; err != nil {
		return 0, err
	}

	applied := 0
	for _, event := range events {
		var enrollment models.Enrollment
		err := s.db.Where("payment_id = ?", event.PaymentID).First(&enrollment).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				log.Printf("[RECONCILER] Lookup failed for payment %s: %v", event.PaymentID, err)
			}
			continue
		}

		input := PaymentUpdateInput{
			PaymentID: event.PaymentID,
			CourseID:  event.CourseID,
			Status:    event.Status,
			LessonID:  event.LessonID,
			Metadata:  event.Metadata,
		}
		if err := s.applyPayment(&enrollment, input); err != nil {
			log.Printf("[RECONCILER] Failed to apply payment %s to enrollment %s: %v", event.PaymentID, enrollment.ID, err)
			continue
		}

		if err := s.db.Model(&event).Update("applied", true).Error; err != nil {
			log.Printf("[RECONCILER] Failed to mark payment event %s applied: %v", event.PaymentID, err)
			continue
		}
		applied++
	}

	if applied > 0 {
		log.Printf("[RECONCILER] Applied %d orphan payment events", applied)
	}
	return applied, nil
}

// PruneOrphanPayments deletes applied events and pending events older than
// the cutoff. Returns how many rows were removed.
func (s *EnrollmentService) PruneOrphanPayments(cutoff time.Time) (int64, error) {
	result := s.db.Where("applied = ? OR created_at < ?", true, cutoff).
		Delete(&models.PaymentEvent{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
