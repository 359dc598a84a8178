package utils

import (
	"enrollsvc/services"
	"log"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// orphanRetentionDays bounds how long an unmatched payment event waits for
// its enrollment before being dropped
const orphanRetentionDays = 7

// InitializeReconcileScheduler starts the orphan-payment reconciliation
// loop. Payment webhooks can arrive before the enrollment carrying their
// payment ID exists; stored events are replayed here until they match or
// age out.
func InitializeReconcileScheduler(enrollments *services.EnrollmentService) *cron.Cron {
	log.Println("[RECONCILER] Initializing payment reconciliation scheduler...")

	c := cron.New()

	// Replay pending events every 5 minutes
	c.AddFunc("*/5 * * * *", func() {
		if _, err := enrollments.ReconcileOrphanPayments(); err != nil {
			log.Printf("[RECONCILER] Reconciliation run failed: %v", err)
		}
	})

	// Prune applied and stale events daily at 3 AM
	c.AddFunc("0 3 * * *", func() {
		cutoff := now.BeginningOfDay().AddDate(0, 0, -orphanRetentionDays)
		removed, err := enrollments.PruneOrphanPayments(cutoff)
		if err != nil {
			log.Printf("[RECONCILER] Prune failed: %v", err)
			return
		}
		log.Printf("[RECONCILER] Pruned %d payment events", removed)
	})

	c.Start()
	log.Println("[RECONCILER] Payment reconciliation scheduler started")
	return c
}
