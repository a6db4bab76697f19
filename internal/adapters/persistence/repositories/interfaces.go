package repositories

import (
	"context"
	"time"

	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByReferralCode(ctx context.Context, code string) (bool, error)
	// SetReferralCodeIfEmpty stores code only when the user has none yet.
	SetReferralCodeIfEmpty(ctx context.Context, id uint, code string) (bool, error)
	SetReferredBy(ctx context.Context, id uint, code string) error
}

// CourseRepository defines course repository interface.
// Modules are owned by their course and only reachable through it.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Course, error)
	List(ctx context.Context, category string, offset, limit int) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	CountModules(ctx context.Context, courseID uint) (int64, error)
	AddModule(ctx context.Context, module *models.Module) error
	GetModule(ctx context.Context, courseID, moduleID uint) (*models.Module, error)
	UpdateModule(ctx context.Context, module *models.Module) error
	DeleteModule(ctx context.Context, courseID, moduleID uint) error
}

// ProgressRepository defines progress repository interface
type ProgressRepository interface {
	// GetOrCreate returns the (user, course) progress row, creating it if missing.
	GetOrCreate(ctx context.Context, userID, courseID uint, now time.Time) (*models.Progress, error)
	// AddCompletedModule reports false when the module was already recorded.
	AddCompletedModule(ctx context.Context, progressID, moduleID uint, at time.Time) (bool, error)
	Touch(ctx context.Context, progressID uint, at time.Time) error
	GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*models.Progress, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Progress, error)
	// ListCompletedWithoutCertificate returns fully completed progress rows whose
	// (user, course) has no certificate, ordered by id and starting after afterID.
	ListCompletedWithoutCertificate(ctx context.Context, afterID uint, limit int) ([]*models.Progress, error)
}

// CertificateRepository defines certificate repository interface
type CertificateRepository interface {
	Create(ctx context.Context, cert *models.Certificate) error
	GetByID(ctx context.Context, id uint) (*models.Certificate, error)
	GetByCertificateID(ctx context.Context, certificateID string) (*models.Certificate, error)
	ExistsByUserAndCourse(ctx context.Context, userID, courseID uint) (bool, error)
	ExistsByCertificateID(ctx context.Context, certificateID string) (bool, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Certificate, error)
	Delete(ctx context.Context, id uint) error
}

// ReferralRepository defines referral repository interface
type ReferralRepository interface {
	Create(ctx context.Context, referral *models.Referral) error
	GetByID(ctx context.Context, id uint) (*models.Referral, error)
	ExistsByReferredUser(ctx context.Context, userID uint) (bool, error)
	ListByReferrer(ctx context.Context, referrerID uint) ([]*models.Referral, error)
	List(ctx context.Context, offset, limit int) ([]*models.Referral, int64, error)
	// UpdateStatus sets the status and, on a transition into approved, credits the
	// referrer in the same transaction. The returned flag reports whether points were awarded.
	UpdateStatus(ctx context.Context, id uint, status domain.ReferralStatus, rewardPoints int, at time.Time) (bool, error)
}
