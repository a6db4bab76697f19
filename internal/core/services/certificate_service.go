package services

import (
	"context"
	"errors"
	"time"

	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/adapters/persistence/repositories"
	"careerhub-api/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxIssueAttempts bounds retries after a certificate id collides at insert time
const maxIssueAttempts = 3

// CertificateService issues, lists, verifies and revokes certificates
type CertificateService struct {
	certRepo   repositories.CertificateRepository
	userRepo   repositories.UserRepository
	courseRepo repositories.CourseRepository
	ids        CodeGenerator
	notifier   Notifier
	cache      VerificationCache
	baseURL    string
	cacheTTL   time.Duration
	log        *zap.Logger
	now        Clock
}

// CertificateServiceConfig carries the issuer settings
type CertificateServiceConfig struct {
	BaseURL  string
	CacheTTL time.Duration
}

// NewCertificateService creates a new certificate service
func NewCertificateService(
	certRepo repositories.CertificateRepository,
	userRepo repositories.UserRepository,
	courseRepo repositories.CourseRepository,
	ids CodeGenerator,
	notifier Notifier,
	cache VerificationCache,
	cfg CertificateServiceConfig,
	log *zap.Logger,
) *CertificateService {
	return &CertificateService{
		certRepo:   certRepo,
		userRepo:   userRepo,
		courseRepo: courseRepo,
		ids:        ids,
		notifier:   notifier,
		cache:      cache,
		baseURL:    cfg.BaseURL,
		cacheTTL:   cfg.CacheTTL,
		log:        log,
		now:        systemClock,
	}
}

// CertificateView is a certificate with its course title
type CertificateView struct {
	*models.Certificate
	CourseTitle string `json:"course_title"`
	Thumbnail   string `json:"thumbnail,omitempty"`
}

// VerificationURL builds the public verification link for a certificate id
func VerificationURL(baseURL, certificateID string) string {
	return baseURL + "/verify-certificate/" + certificateID
}

// Issue creates the single certificate for (user, course).
// A second call, concurrent or not, gets domain.ErrAlreadyIssued.
func (s *CertificateService) Issue(ctx context.Context, userID, courseID uint) (*models.Certificate, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	exists, err := s.certRepo.ExistsByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyIssued
	}

	for attempt := 0; attempt < maxIssueAttempts; attempt++ {
		certificateID, err := s.ids.Generate(ctx, KindCertificate)
		if err != nil {
			return nil, err
		}

		cert := &models.Certificate{
			UserID:         userID,
			CourseID:       courseID,
			CertificateID:  certificateID,
			CertificateURL: VerificationURL(s.baseURL, certificateID),
			IssuedAt:       s.now(),
		}

		err = s.certRepo.Create(ctx, cert)
		if err == nil {
			s.log.Info("certificate issued",
				zap.String("certificate_id", cert.CertificateID),
				zap.Uint("user_id", userID),
				zap.Uint("course_id", courseID),
			)
			s.notifier.CertificateIssued(ctx, user.ID, user.Email, course.Title, cert.CertificateID, cert.CertificateURL)
			return cert, nil
		}
		if !repositories.IsDuplicateKey(err) {
			return nil, err
		}

		// Either a concurrent issue won the (user, course) index or the id collided.
		exists, err := s.certRepo.ExistsByUserAndCourse(ctx, userID, courseID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, domain.ErrAlreadyIssued
		}
	}

	return nil, domain.ErrGenerationExhausted
}

// ListByUser lists a user's certificates with course titles
func (s *CertificateService) ListByUser(ctx context.Context, userID uint) ([]*CertificateView, error) {
	certs, err := s.certRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]uint, 0, len(certs))
	for _, cert := range certs {
		courseIDs = append(courseIDs, cert.CourseID)
	}
	courses, err := s.courseRepo.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Course, len(courses))
	for _, course := range courses {
		byID[course.ID] = course
	}

	views := make([]*CertificateView, 0, len(certs))
	for _, cert := range certs {
		view := &CertificateView{Certificate: cert}
		if course, ok := byID[cert.CourseID]; ok {
			view.CourseTitle = course.Title
			view.Thumbnail = course.Thumbnail
		}
		views = append(views, view)
	}
	return views, nil
}

// GetByID returns a certificate to its owner or an admin
func (s *CertificateService) GetByID(ctx context.Context, id, requesterID uint, requesterRole domain.Role) (*CertificateView, error) {
	cert, err := s.certRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, err
	}

	if cert.UserID != requesterID && requesterRole != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	view := &CertificateView{Certificate: cert}
	course, err := s.courseRepo.GetByID(ctx, cert.CourseID)
	switch {
	case err == nil:
		view.CourseTitle = course.Title
		view.Thumbnail = course.Thumbnail
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return view, nil
}

// Verify resolves a public certificate id to the recipient and course
func (s *CertificateService) Verify(ctx context.Context, certificateID string) (*domain.CertificateVerification, error) {
	cached, err := s.cache.Get(ctx, certificateID)
	if err != nil {
		s.log.Warn("certificate cache read failed", zap.String("certificate_id", certificateID), zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	cert, err := s.certRepo.GetByCertificateID(ctx, certificateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, err
	}

	verification := &domain.CertificateVerification{
		CertificateID: cert.CertificateID,
		IssuedAt:      cert.IssuedAt,
	}

	user, err := s.userRepo.GetByID(ctx, cert.UserID)
	switch {
	case err == nil:
		verification.RecipientName = user.FullName()
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	course, err := s.courseRepo.GetByID(ctx, cert.CourseID)
	switch {
	case err == nil:
		verification.CourseName = course.Title
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	if err := s.cache.Set(ctx, verification, s.cacheTTL); err != nil {
		s.log.Warn("certificate cache write failed", zap.String("certificate_id", certificateID), zap.Error(err))
	}

	return verification, nil
}

// Revoke deletes a certificate and drops its cached verification
func (s *CertificateService) Revoke(ctx context.Context, id uint) error {
	cert, err := s.certRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCertificateNotFound
		}
		return err
	}

	if err := s.certRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCertificateNotFound
		}
		return err
	}

	if err := s.cache.Delete(ctx, cert.CertificateID); err != nil {
		s.log.Warn("certificate cache invalidation failed", zap.String("certificate_id", cert.CertificateID), zap.Error(err))
	}

	s.log.Info("certificate revoked", zap.String("certificate_id", cert.CertificateID))
	return nil
}
