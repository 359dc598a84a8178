package enrollmentValidator

import (
	"enrollsvc/middleware"
	"enrollsvc/models"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateEnrollmentRequest is the create-enrollment body
type CreateEnrollmentRequest struct {
	CourseID   string  `json:"course_id" validate:"required"`
	UserID     string  `json:"user_id" validate:"required"`
	IsFree     bool    `json:"is_free"`
	CourseName string  `json:"course_name"`
	UserName   string  `json:"user_name"`
	PaymentID  *string `json:"payment_id"`
	Status     string  `json:"status" validate:"omitempty,oneof=PENDING ACTIVE COMPLETED CANCELLED FAILED"`
	LessonID   *string `json:"lesson_id"`
}

// UpdateStatusRequest is the status-transition body
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING ACTIVE COMPLETED CANCELLED FAILED"`
}

// CertificateRequest is the create/update certificate body
type CertificateRequest struct {
	CertificateURL string                 `json:"certificate_url"`
	Metadata       map[string]interface{} `json:"metadata"`
}

func CreateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateEnrollmentRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
		}

		c.Locals("enrollmentID", id)
		return c.Next()
	}
}

func ListEnrollments() fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := strings.TrimSpace(c.Query("status"))
		if status != "" && !models.ValidStatus(status) {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"status": "Status must be one of PENDING, ACTIVE, COMPLETED, CANCELLED, FAILED!",
			})
		}

		// User scoping comes from the X-User-Id header or the query string
		userID := strings.TrimSpace(c.Get("X-User-Id"))
		if userID == "" {
			userID = strings.TrimSpace(c.Query("user_id"))
		}

		c.Locals("filterUserID", userID)
		c.Locals("filterStatus", status)
		return c.Next()
	}
}

func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
		}

		reqData := new(UpdateStatusRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errs := collectErrors(validate.Struct(reqData)); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("enrollmentID", id)
		c.Locals("validatedStatus", reqData.Status)
		return c.Next()
	}
}

func CheckEnrolled() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Query("user_id"))
		courseID := strings.TrimSpace(c.Query("course_id"))

		errors := make(map[string]string)
		if userID == "" {
			errors["user_id"] = "User ID is required!"
		}
		if courseID == "" {
			errors["course_id"] = "Course ID is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("userID", userID)
		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func CreateCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
		}

		reqData := new(CertificateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("enrollmentID", id)
		c.Locals("validatedCertificate", reqData)
		return c.Next()
	}
}

func VerifyCertificate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("id"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Certificate ID is required!", nil)
		}

		c.Locals("certificateID", id)
		return c.Next()
	}
}

func collectErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	errors := make(map[string]string)
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range fieldErrors {
			switch fieldError.Tag() {
			case "required":
				errors[fieldError.Field()] = fieldError.Field() + " is required!"
			case "oneof":
				errors[fieldError.Field()] = fieldError.Field() + " must be one of " + fieldError.Param() + "!"
			default:
				errors[fieldError.Field()] = fieldError.Field() + " is invalid!"
			}
		}
		return errors
	}
	errors["body"] = "Invalid request body!"
	return errors
}
