package progressRoutes

import (
	controllers "enrollsvc/controllers/progress"
	validators "enrollsvc/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up progress tracking routes
func SetupProgressRoutes(app *fiber.App, ctl *controllers.ProgressController) {
	group := app.Group("/progress")

	// (user, course) addressed routes (keep ahead of the :enrollmentId routes)
	group.Get("/overall", validators.UserCourse(), ctl.Overall)
	group.Get("/", validators.UserCourse(), ctl.Get)
	group.Put("/", validators.UserCourse(), validators.UpdateProgress(), ctl.Update)

	// Enrollment addressed routes
	group.Get("/:enrollmentId/overall", validators.EnrollmentID(), ctl.OverallByEnrollment)
	group.Get("/:enrollmentId", validators.EnrollmentID(), ctl.GetByEnrollment)
	group.Put("/:enrollmentId", validators.EnrollmentID(), validators.UpdateProgress(), ctl.UpdateByEnrollment)
}
