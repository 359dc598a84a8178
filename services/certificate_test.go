package services

import (
	"enrollsvc/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completedEnrollment(t *testing.T, enrollments *EnrollmentService) *models.Enrollment {
	t.Helper()
	enrollment, err := enrollments.Create(CreateEnrollmentInput{
		CourseID: "C1", UserID: "U1", CourseName: "Go Basics", UserName: "Alice", IsFree: true,
	})
	require.NoError(t, err)
	enrollment, err = enrollments.UpdateStatus(enrollment.ID, models.StatusCompleted)
	require.NoError(t, err)
	return enrollment
}

func TestCreateCertificateRequiresCompletion(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewCertificateService(db)

	enrollment, err := enrollments.Create(CreateEnrollmentInput{CourseID: "C1", UserID: "U1", IsFree: true})
	require.NoError(t, err)

	_, err = svc.CreateOrUpdate(enrollment.ID, CertificateInput{CertificateURL: "/certs/1.pdf"})
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.CreateOrUpdate("missing", CertificateInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateCertificateIdempotentUpsert(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewCertificateService(db)
	enrollment := completedEnrollment(t, enrollments)

	first, err := svc.CreateOrUpdate(enrollment.ID, CertificateInput{CertificateURL: "/certs/v1.pdf"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.CertificateNumber)
	assert.False(t, first.IssuedAt.IsZero())

	second, err := svc.CreateOrUpdate(enrollment.ID, CertificateInput{CertificateURL: "/certs/v2.pdf"})
	require.NoError(t, err)

	// Updated in place: same identity, same number, fresh content
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CertificateNumber, second.CertificateNumber)

	var count int64
	db.Model(&models.Certificate{}).Where("enrollment_id = ?", enrollment.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var stored models.Certificate
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&stored).Error)
	assert.Equal(t, "/certs/v2.pdf", stored.CertificateURL)
}

func TestCreateCertificateMetadataBaseline(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewCertificateService(db)
	enrollment := completedEnrollment(t, enrollments)

	certificate, err := svc.CreateOrUpdate(enrollment.ID, CertificateInput{
		Metadata: map[string]interface{}{
			"grade":       "A",
			"course_name": "Go Basics (Honors)", // caller overrides baseline
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "U1", certificate.Metadata["user_id"])
	assert.Equal(t, "C1", certificate.Metadata["course_id"])
	assert.Equal(t, "Alice", certificate.Metadata["user_name"])
	assert.Equal(t, "Go Basics (Honors)", certificate.Metadata["course_name"])
	assert.Equal(t, "A", certificate.Metadata["grade"])
}

func TestVerifyCertificate(t *testing.T) {
	db := newTestDB(t)
	enrollments := NewEnrollmentService(db, nil)
	svc := NewCertificateService(db)
	enrollment := completedEnrollment(t, enrollments)

	certificate, err := svc.CreateOrUpdate(enrollment.ID, CertificateInput{CertificateURL: "/certs/1.pdf"})
	require.NoError(t, err)

	verification, err := svc.Verify(certificate.ID)
	require.NoError(t, err)
	assert.True(t, verification.IsValid)
	assert.Equal(t, certificate.ID, verification.CertificateID)
	assert.Equal(t, certificate.CertificateNumber, verification.CertificateNumber)
	assert.Equal(t, enrollment.ID, verification.EnrollmentID)
	assert.Equal(t, "U1", verification.UserID)
	assert.Equal(t, "C1", verification.CourseID)
}

func TestVerifyCertificateNotFound(t *testing.T) {
	svc := NewCertificateService(newTestDB(t))

	_, err := svc.Verify("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
