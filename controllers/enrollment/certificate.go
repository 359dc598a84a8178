package controllers

import (
	"enrollsvc/middleware"
	"enrollsvc/services"
	enrollmentValidator "enrollsvc/validators/enrollment"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// CreateCertificate issues or refreshes the certificate for a completed
// enrollment
func (ctl *EnrollmentController) CreateCertificate(c *fiber.Ctx) error {
	id := c.Locals("enrollmentID").(string)
	reqData, ok := c.Locals("validatedCertificate").(*enrollmentValidator.CertificateRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	certificate, err := ctl.certificates.CreateOrUpdate(id, services.CertificateInput{
		CertificateURL: reqData.CertificateURL,
		Metadata:       reqData.Metadata,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
		case errors.Is(err, services.ErrInvalidState):
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Please complete the course before requesting a certificate!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate saved successfully!", certificate)
}

// VerifyCertificate checks a certificate exists and returns its facts
func (ctl *EnrollmentController) VerifyCertificate(c *fiber.Ctx) error {
	id := c.Locals("certificateID").(string)

	verification, err := ctl.certificates.Verify(id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify certificate!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate verified successfully!", verification)
}
