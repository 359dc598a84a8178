package enrollmentValidator

import (
	"enrollsvc/middleware"

	"github.com/gofiber/fiber/v2"
)

// PaymentWebhookRequest is the payment-service webhook payload
type PaymentWebhookRequest struct {
	PaymentID   string                 `json:"payment_id" validate:"required"`
	ServiceID   string                 `json:"service_id" validate:"required"` // the course
	ServiceType string                 `json:"service_type"`
	Status      string                 `json:"status" validate:"required"`
	LessonID    *string                `json:"lesson_id"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// NewLessonWebhookRequest is the content-service webhook payload
type NewLessonWebhookRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	LessonID string `json:"lesson_id" validate:"required"`
	Title    string `json:"title"`
}

func PaymentWebhook() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(PaymentWebhookRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedPaymentWebhook", reqData)
		return c.Next()
	}
}

func NewLessonWebhook() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(NewLessonWebhookRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedNewLesson", reqData)
		return c.Next()
	}
}
