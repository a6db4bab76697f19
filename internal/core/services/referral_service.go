package services

import (
	"context"
	"errors"
	"strings"

	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/adapters/persistence/repositories"
	"careerhub-api/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxCodeAssignAttempts bounds retries when a freshly generated referral code
// loses the unique index to another user
const maxCodeAssignAttempts = 3

// ReferralService links referred users to referrers and rewards approvals
type ReferralService struct {
	userRepo     repositories.UserRepository
	referralRepo repositories.ReferralRepository
	ids          CodeGenerator
	notifier     Notifier
	rewardPoints int
	log          *zap.Logger
	now          Clock
}

// NewReferralService creates a new referral service
func NewReferralService(
	userRepo repositories.UserRepository,
	referralRepo repositories.ReferralRepository,
	ids CodeGenerator,
	notifier Notifier,
	rewardPoints int,
	log *zap.Logger,
) *ReferralService {
	return &ReferralService{
		userRepo:     userRepo,
		referralRepo: referralRepo,
		ids:          ids,
		notifier:     notifier,
		rewardPoints: rewardPoints,
		log:          log,
		now:          systemClock,
	}
}

// NormalizeCode trims and uppercases a user supplied referral code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ResolveCode returns the owner of a referral code
func (s *ReferralService) ResolveCode(ctx context.Context, code string) (*models.User, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, domain.ErrCodeNotFound
	}

	referrer, err := s.userRepo.GetByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}
	return referrer, nil
}

// CreateReferral links referredUserID to the owner of code. A user can be referred once.
func (s *ReferralService) CreateReferral(ctx context.Context, referredUserID uint, code string) (*models.Referral, error) {
	referrer, err := s.ResolveCode(ctx, code)
	if err != nil {
		return nil, err
	}

	referred, err := s.userRepo.GetByID(ctx, referredUserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if referrer.ID == referred.ID {
		return nil, domain.ErrSelfReferral
	}

	exists, err := s.referralRepo.ExistsByReferredUser(ctx, referred.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrAlreadyReferred
	}

	referral := &models.Referral{
		ReferrerID:     referrer.ID,
		ReferredUserID: referred.ID,
		ReferralCode:   *referrer.ReferralCode,
		Status:         domain.ReferralPending,
	}
	if err := s.referralRepo.Create(ctx, referral); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, domain.ErrAlreadyReferred
		}
		return nil, err
	}

	if err := s.userRepo.SetReferredBy(ctx, referred.ID, referral.ReferralCode); err != nil {
		s.log.Error("failed to record referred_by",
			zap.Uint("user_id", referred.ID),
			zap.Uint("referral_id", referral.ID),
			zap.Error(err),
		)
	}

	s.log.Info("referral created",
		zap.Uint("referral_id", referral.ID),
		zap.Uint("referrer_id", referrer.ID),
		zap.Uint("referred_user_id", referred.ID),
	)
	s.notifier.ReferralCreated(ctx, referrer.ID, referrer.Email, referred.FullName())

	return referral, nil
}

// UpdateStatus moves a referral to a new status. Entering approved from any other
// status credits the referrer; approving an approved referral credits nothing.
func (s *ReferralService) UpdateStatus(ctx context.Context, referralID uint, rawStatus string) (*models.Referral, error) {
	status, err := domain.ParseReferralStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	awarded, err := s.referralRepo.UpdateStatus(ctx, referralID, status, s.rewardPoints, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReferralNotFound
		}
		return nil, err
	}

	referral, err := s.referralRepo.GetByID(ctx, referralID)
	if err != nil {
		return nil, err
	}

	if awarded {
		s.log.Info("referral approved",
			zap.Uint("referral_id", referral.ID),
			zap.Uint("referrer_id", referral.ReferrerID),
			zap.Int("points", s.rewardPoints),
		)
		referrer, err := s.userRepo.GetByID(ctx, referral.ReferrerID)
		if err == nil {
			s.notifier.ReferralApproved(ctx, referrer.ID, referrer.Email, s.rewardPoints)
		}
	}

	return referral, nil
}

// GetOrCreateReferralCode returns the user's code, assigning one on first use.
// Concurrent first calls all return the code that was stored.
func (s *ReferralService) GetOrCreateReferralCode(ctx context.Context, userID uint) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	if user.ReferralCode != nil && *user.ReferralCode != "" {
		return *user.ReferralCode, nil
	}

	for attempt := 0; attempt < maxCodeAssignAttempts; attempt++ {
		code, err := s.ids.Generate(ctx, KindReferral)
		if err != nil {
			return "", err
		}

		stored, err := s.userRepo.SetReferralCodeIfEmpty(ctx, userID, code)
		if err != nil {
			if repositories.IsDuplicateKey(err) {
				continue
			}
			return "", err
		}
		if stored {
			return code, nil
		}

		// Someone else assigned a code first
		user, err = s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return "", err
		}
		if user.ReferralCode != nil {
			return *user.ReferralCode, nil
		}
	}

	return "", domain.ErrGenerationExhausted
}

// ListMine lists the referrals a user made
func (s *ReferralService) ListMine(ctx context.Context, referrerID uint) ([]*models.Referral, error) {
	return s.referralRepo.ListByReferrer(ctx, referrerID)
}

// List lists every referral
func (s *ReferralService) List(ctx context.Context, offset, limit int) ([]*models.Referral, int64, error) {
	return s.referralRepo.List(ctx, offset, limit)
}

// GetByID gets one referral
func (s *ReferralService) GetByID(ctx context.Context, id uint) (*models.Referral, error) {
	referral, err := s.referralRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReferralNotFound
		}
		return nil, err
	}
	return referral, nil
}
