package controllers

import (
	"enrollsvc/middleware"
	"enrollsvc/services"
	progressValidator "enrollsvc/validators/progress"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ProgressController is thin HTTP glue over the progress engine
type ProgressController struct {
	progress *services.ProgressService
}

func NewProgressController(progress *services.ProgressService) *ProgressController {
	return &ProgressController{progress: progress}
}

// GetByEnrollment returns the progress projection for an enrollment
func (ctl *ProgressController) GetByEnrollment(c *fiber.Ctx) error {
	id := c.Locals("enrollmentID").(string)

	view, err := ctl.progress.GetByEnrollmentID(id)
	if err != nil {
		return respondProgressError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", view)
}

// Get returns the progress projection for a (user, course) pair
func (ctl *ProgressController) Get(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	courseID := c.Locals("courseID").(string)

	view, err := ctl.progress.Get(userID, courseID)
	if err != nil {
		return respondProgressError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", view)
}

// UpdateByEnrollment applies a partial progress update by enrollment ID
func (ctl *ProgressController) UpdateByEnrollment(c *fiber.Ctx) error {
	id := c.Locals("enrollmentID").(string)
	reqData, ok := c.Locals("validatedProgress").(*progressValidator.UpdateProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	view, err := ctl.progress.UpdateByEnrollmentID(id, toUpdate(reqData))
	if err != nil {
		return respondProgressError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", view)
}

// Update applies a partial progress update by (user, course) pair
func (ctl *ProgressController) Update(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	courseID := c.Locals("courseID").(string)
	reqData, ok := c.Locals("validatedProgress").(*progressValidator.UpdateProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	view, err := ctl.progress.Update(userID, courseID, toUpdate(reqData))
	if err != nil {
		return respondProgressError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", view)
}

// Overall returns the completion snapshot for a (user, course) pair
func (ctl *ProgressController) Overall(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	courseID := c.Locals("courseID").(string)

	overall, err := ctl.progress.GetOverallProgress(userID, courseID)
	if err != nil {
		return respondProgressError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overall progress fetched successfully!", overall)
}

// OverallByEnrollment returns the completion snapshot for an enrollment
func (ctl *ProgressController) OverallByEnrollment(c *fiber.Ctx) error {
	id := c.Locals("enrollmentID").(string)

	overall, err := ctl.progress.GetOverallProgressByEnrollmentID(id)
	if err != nil {
		return respondProgressError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overall progress fetched successfully!", overall)
}

func toUpdate(reqData *progressValidator.UpdateProgressRequest) services.ProgressUpdate {
	return services.ProgressUpdate{
		Progress:          reqData.Progress,
		CurrentLesson:     reqData.CurrentLesson,
		LessonID:          reqData.LessonID,
		IsLessonCompleted: reqData.IsLessonCompleted,
	}
}

func respondProgressError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process progress request!", nil)
}
