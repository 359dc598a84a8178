package services

import "enrollsvc/models"

// allowedTransitions is the enrollment state machine. Terminal states
// (COMPLETED, CANCELLED, FAILED) have no outgoing edges.
var allowedTransitions = map[string][]string{
	models.StatusPending: {models.StatusActive, models.StatusCancelled, models.StatusFailed},
	models.StatusActive:  {models.StatusCompleted, models.StatusCancelled},
}

// canTransition reports whether from -> to is a legal move. Re-applying the
// current status is always allowed so at-least-once webhook delivery stays
// idempotent.
func canTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// statusForPayment maps an externally-reported payment status onto the
// enrollment state machine. Unknown statuses leave the enrollment as is.
func statusForPayment(paymentStatus, current string) string {
	switch paymentStatus {
	case "COMPLETED":
		return models.StatusActive
	case "FAILED", "EXPIRED", "CANCELLED":
		return models.StatusCancelled
	}
	return current
}
