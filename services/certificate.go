package services

import (
	"enrollsvc/models"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CertificateService issues and verifies completion certificates
type CertificateService struct {
	db *gorm.DB
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{db: db}
}

// CertificateInput carries certificate content from the caller. Metadata
// keys override the baseline facts seeded from the enrollment.
type CertificateInput struct {
	CertificateURL string
	Metadata       map[string]interface{}
}

// CertificateVerification is the verify payload. Validity means the record
// exists; no tamper check is performed.
type CertificateVerification struct {
	IsValid           bool      `json:"is_valid"`
	CertificateID     string    `json:"certificate_id"`
	CertificateNumber string    `json:"certificate_number"`
	EnrollmentID      string    `json:"enrollment_id"`
	UserID            string    `json:"user_id"`
	CourseID          string    `json:"course_id"`
	IssuedAt          time.Time `json:"issued_at"`
}

// CreateOrUpdate issues a certificate for a completed enrollment, or
// refreshes the existing one. Exactly one certificate exists per
// enrollment; the certificate number and issue date survive re-issuance.
func (s *CertificateService) CreateOrUpdate(enrollmentID string, in CertificateInput) (*models.Certificate, error) {
	var enrollment models.Enrollment
	if err := s.db.Where("id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return nil, translateNotFound(err)
	}

	if enrollment.Status != models.StatusCompleted {
		return nil, ErrInvalidState
	}

	metadata := datatypes.JSONMap{
		"user_id":     enrollment.UserID,
		"course_id":   enrollment.CourseID,
		"user_name":   enrollment.UserName,
		"course_name": enrollment.CourseName,
	}
	for key, value := range in.Metadata {
		metadata[key] = value
	}

	var existing models.Certificate
	err := s.db.Where("enrollment_id = ?", enrollmentID).First(&existing).Error
	if err == nil {
		updates := map[string]interface{}{
			"metadata":   metadata,
			"updated_at": time.Now(),
		}
		if in.CertificateURL != "" {
			updates["certificate_url"] = in.CertificateURL
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	certificate := models.Certificate{
		EnrollmentID:      enrollmentID,
		CertificateURL:    in.CertificateURL,
		CertificateNumber: newCertificateNumber(),
		Metadata:          metadata,
		IssuedAt:          time.Now(),
	}
	if err := s.db.Create(&certificate).Error; err != nil {
		return nil, err
	}
	return &certificate, nil
}

// Verify loads the certificate and its owning enrollment. A certificate
// that exists is valid.
func (s *CertificateService) Verify(certificateID string) (*CertificateVerification, error) {
	var certificate models.Certificate
	if err := s.db.Where("id = ?", certificateID).First(&certificate).Error; err != nil {
		return nil, translateNotFound(err)
	}

	var enrollment models.Enrollment
	if err := s.db.Where("id = ?", certificate.EnrollmentID).First(&enrollment).Error; err != nil {
		return nil, translateNotFound(err)
	}

	return &CertificateVerification{
		IsValid:           true,
		CertificateID:     certificate.ID,
		CertificateNumber: certificate.CertificateNumber,
		EnrollmentID:      enrollment.ID,
		UserID:            enrollment.UserID,
		CourseID:          enrollment.CourseID,
		IssuedAt:          certificate.IssuedAt,
	}, nil
}

func newCertificateNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("CERT-%d-%s", time.Now().Year(), suffix)
}
