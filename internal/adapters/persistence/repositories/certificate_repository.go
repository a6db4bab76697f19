package repositories

import (
	"context"

	"careerhub-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// certificateRepository implements CertificateRepository interface
type certificateRepository struct {
	db *gorm.DB
}

// NewCertificateRepository creates a new certificate repository
func NewCertificateRepository(db *gorm.DB) CertificateRepository {
	return &certificateRepository{db: db}
}

// Create inserts a certificate; unique index violations surface as ErrDuplicateKey
func (r *certificateRepository) Create(ctx context.Context, cert *models.Certificate) error {
	return translateError(r.db.WithContext(ctx).Create(cert).Error)
}

// GetByID gets a certificate by its database ID
func (r *certificateRepository) GetByID(ctx context.Context, id uint) (*models.Certificate, error) {
	var cert models.Certificate
	if err := r.db.WithContext(ctx).First(&cert, id).Error; err != nil {
		return nil, err
	}
	return &cert, nil
}

// GetByCertificateID gets a certificate by its public identifier
func (r *certificateRepository) GetByCertificateID(ctx context.Context, certificateID string) (*models.Certificate, error) {
	var cert models.Certificate
	err := r.db.WithContext(ctx).Where("certificate_id = ?", certificateID).First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

// ExistsByUserAndCourse checks whether (user, course) already holds a certificate
func (r *certificateRepository) ExistsByUserAndCourse(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

// ExistsByCertificateID checks if a public identifier is taken
func (r *certificateRepository) ExistsByCertificateID(ctx context.Context, certificateID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Certificate{}).
		Where("certificate_id = ?", certificateID).
		Count(&count).Error
	return count > 0, err
}

// ListByUser lists a user's certificates, newest first
func (r *certificateRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Certificate, error) {
	var certs []*models.Certificate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("issued_at DESC").
		Find(&certs).Error
	return certs, err
}

// Delete revokes a certificate
func (r *certificateRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Certificate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
