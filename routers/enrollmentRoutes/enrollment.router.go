package enrollmentRoutes

import (
	controllers "enrollsvc/controllers/enrollment"
	validators "enrollsvc/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up enrollment, certificate and webhook routes
func SetupEnrollmentRoutes(app *fiber.App, ctl *controllers.EnrollmentController) {
	group := app.Group("/enrollment")

	// Webhooks from the payment and content services
	group.Post("/webhook/payment", validators.PaymentWebhook(), ctl.HandlePaymentWebhook)
	group.Post("/webhook/new-lesson", validators.NewLessonWebhook(), ctl.HandleNewLessonWebhook)

	// Certificate verification (keep ahead of the :id routes)
	group.Get("/certificate/:id/verify", validators.VerifyCertificate(), ctl.VerifyCertificate)

	// Enrollment lifecycle
	group.Post("/", validators.CreateEnrollment(), ctl.Create)
	group.Get("/check", validators.CheckEnrolled(), ctl.CheckEnrolled)
	group.Get("/", validators.ListEnrollments(), ctl.List)
	group.Get("/:id", validators.EnrollmentID(), ctl.Get)
	group.Put("/:id/status", validators.UpdateStatus(), ctl.UpdateStatus)

	// Certificate issuance
	group.Post("/:id/certificate", validators.CreateCertificate(), ctl.CreateCertificate)
}
