package progressValidator

import (
	"enrollsvc/middleware"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// UpdateProgressRequest is a partial progress update. Pointer fields left
// nil mean "leave unchanged".
type UpdateProgressRequest struct {
	Progress          *int    `json:"progress" validate:"omitempty,min=0,max=100"`
	CurrentLesson     *string `json:"current_lesson"`
	LessonID          *string `json:"lesson_id"`
	IsLessonCompleted *bool   `json:"is_lesson_completed"`
}

func EnrollmentID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Params("enrollmentId"))
		if id == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment ID is required!", nil)
		}

		c.Locals("enrollmentID", id)
		return c.Next()
	}
}

func UserCourse() fiber.Handler {
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

func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProgressRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			if fieldErrors, ok := err.(validator.ValidationErrors); ok {
				for _, fieldError := range fieldErrors {
					errors[fieldError.Field()] = fieldError.Field() + " must be between 0 and 100!"
				}
			} else {
				errors["body"] = "Invalid request body!"
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
