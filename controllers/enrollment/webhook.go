package controllers

import (
	"enrollsvc/middleware"
	"enrollsvc/services"
	enrollmentValidator "enrollsvc/validators/enrollment"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// HandlePaymentWebhook consumes payment status events from the payment
// service. Delivery is at-least-once: an unmatched payment ID is a soft
// result, never an error.
func (ctl *EnrollmentController) HandlePaymentWebhook(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedPaymentWebhook").(*enrollmentValidator.PaymentWebhookRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	log.Printf("[WEBHOOK] Received payment webhook for %s %s with status %s",
		reqData.ServiceType, reqData.ServiceID, reqData.Status)

	result, err := ctl.enrollments.ProcessPaymentUpdate(services.PaymentUpdateInput{
		PaymentID:   reqData.PaymentID,
		CourseID:    reqData.ServiceID,
		ServiceType: reqData.ServiceType,
		Status:      reqData.Status,
		LessonID:    reqData.LessonID,
		Metadata:    reqData.Metadata,
	})
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedEvent) {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Unsupported service type!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process payment update!", nil)
	}

	if !result.Matched {
		// Soft result: at-least-once delivery means the enrollment may not
		// exist yet, so the sender must not retry into a hard failure
		return middleware.JsonResponse(c, fiber.StatusOK, false, "No enrollment found with this payment ID!", result)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Payment update processed successfully!", result)
}

// HandleNewLessonWebhook fans a newly published lesson out to every active
// enrollment of the course
func (ctl *EnrollmentController) HandleNewLessonWebhook(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedNewLesson").(*enrollmentValidator.NewLessonWebhookRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	log.Printf("[WEBHOOK] Received new lesson webhook for course %s", reqData.CourseID)

	result, err := ctl.enrollments.AddNewLessonToAllEnrollments(reqData.CourseID, reqData.LessonID, reqData.Title)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process new lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "New lesson processed successfully!", result)
}
