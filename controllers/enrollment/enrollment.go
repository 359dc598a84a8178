package controllers

import (
	"enrollsvc/middleware"
	"enrollsvc/services"
	enrollmentValidator "enrollsvc/validators/enrollment"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentController is thin HTTP glue over the lifecycle engine and the
// certificate issuer
type EnrollmentController struct {
	enrollments  *services.EnrollmentService
	certificates *services.CertificateService
}

func NewEnrollmentController(enrollments *services.EnrollmentService, certificates *services.CertificateService) *EnrollmentController {
	return &EnrollmentController{enrollments: enrollments, certificates: certificates}
}

// Create enrolls a user in a course
func (ctl *EnrollmentController) Create(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedEnrollment").(*enrollmentValidator.CreateEnrollmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	enrollment, err := ctl.enrollments.Create(services.CreateEnrollmentInput{
		CourseID:   reqData.CourseID,
		UserID:     reqData.UserID,
		IsFree:     reqData.IsFree,
		CourseName: reqData.CourseName,
		UserName:   reqData.UserName,
		PaymentID:  reqData.PaymentID,
		Status:     reqData.Status,
		LessonID:   reqData.LessonID,
	})
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEnrollment) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

// Get fetches one enrollment with its certificate and progress rows
func (ctl *EnrollmentController) Get(c *fiber.Ctx) error {
	id := c.Locals("enrollmentID").(string)

	enrollment, err := ctl.enrollments.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!", enrollment)
}

// List fetches enrollments filtered by optional user and status
func (ctl *EnrollmentController) List(c *fiber.Ctx) error {
	userID := c.Locals("filterUserID").(string)
	status := c.Locals("filterStatus").(string)

	enrollments, err := ctl.enrollments.List(userID, status)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}

// UpdateStatus applies an explicit status transition
func (ctl *EnrollmentController) UpdateStatus(c *fiber.Ctx) error {
	id := c.Locals("enrollmentID").(string)
	status := c.Locals("validatedStatus").(string)

	enrollment, err := ctl.enrollments.UpdateStatus(id, status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		case errors.Is(err, services.ErrInvalidTransition):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Status transition not allowed!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update status!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Status updated successfully!", enrollment)
}

// CheckEnrolled reports whether the user can consume the course
func (ctl *EnrollmentController) CheckEnrolled(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	courseID := c.Locals("courseID").(string)

	enrolled, err := ctl.enrollments.CheckEnrolled(userID, courseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment checked successfully!", fiber.Map{
		"enrolled": enrolled,
	})
}
