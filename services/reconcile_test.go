package services

import (
	"enrollsvc/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileOrphanPayments(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db, nil)

	// Webhook arrives before the enrollment exists
	result, err := svc.ProcessPaymentUpdate(PaymentUpdateInput{
		PaymentID: "PAY-EARLY", CourseID: "C1", Status: "COMPLETED",
	})
	require.NoError(t, err)
	assert.False(t, result.Matched)

	// Nothing to apply yet
	applied, err := svc.ReconcileOrphanPayments()
	require.NoError(t, err)
	assert.Equal(t, 0, applied)

	enrollment, err := svc.Create(CreateEnrollmentInput{
		CourseID: "C1", UserID: "U1", PaymentID: strPtr("PAY-EARLY"), Status: models.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, enrollment.Status)

	applied, err = svc.ReconcileOrphanPayments()
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	enrollment, err = svc.GetByID(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, enrollment.Status)

	var event models.PaymentEvent
	require.NoError(t, db.Where("payment_id = ?", "PAY-EARLY").First(&event).Error)
	assert.True(t, event.Applied)

	// Replay is a no-op once the event is marked applied
	applied, err = svc.ReconcileOrphanPayments()
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
}

func TestOrphanRedeliveryRefreshesStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db, nil)

	_, err := svc.ProcessPaymentUpdate(PaymentUpdateInput{
		PaymentID: "PAY-1", CourseID: "C1", Status: "PENDING",
	})
	require.NoError(t, err)

	_, err = svc.ProcessPaymentUpdate(PaymentUpdateInput{
		PaymentID: "PAY-1", CourseID: "C1", Status: "COMPLETED",
	})
	require.NoError(t, err)

	var count int64
	db.Model(&models.PaymentEvent{}).Where("payment_id = ?", "PAY-1").Count(&count)
	assert.EqualValues(t, 1, count)

	var event models.PaymentEvent
	require.NoError(t, db.Where("payment_id = ?", "PAY-1").First(&event).Error)
	assert.Equal(t, "COMPLETED", event.Status)
}

func TestPruneOrphanPayments(t *testing.T) {
	db := newTestDB(t)
	svc := NewEnrollmentService(db, nil)

	stale := models.PaymentEvent{PaymentID: "PAY-STALE", CourseID: "C1", Status: "COMPLETED"}
	require.NoError(t, db.Create(&stale).Error)
	require.NoError(t, db.Model(&stale).Update("created_at", time.Now().AddDate(0, 0, -30)).Error)

	done := models.PaymentEvent{PaymentID: "PAY-DONE", CourseID: "C1", Status: "COMPLETED", Applied: true}
	require.NoError(t, db.Create(&done).Error)

	fresh := models.PaymentEvent{PaymentID: "PAY-FRESH", CourseID: "C1", Status: "COMPLETED"}
	require.NoError(t, db.Create(&fresh).Error)

	removed, err := svc.PruneOrphanPayments(time.Now().AddDate(0, 0, -7))
	require.NoError(t, err)
	assert.EqualValues(t, 2, removed)

	var remaining []models.PaymentEvent
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "PAY-FRESH", remaining[0].PaymentID)
}
