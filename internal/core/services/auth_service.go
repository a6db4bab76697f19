package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/adapters/persistence/repositories"
	"careerhub-api/internal/core/domain"
	"careerhub-api/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthService handles authentication business logic
type AuthService struct {
	userRepo  repositories.UserRepository
	referrals *ReferralService
	hasher    PasswordHasher
	signer    TokenSigner
	log       *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	referrals *ReferralService,
	hasher PasswordHasher,
	signer TokenSigner,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		referrals: referrals,
		hasher:    hasher,
		signer:    signer,
		log:       log,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	FirstName    string      `json:"first_name"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	Password     string      `json:"password"`
	Role         domain.Role `json:"role"`
	ReferralCode string      `json:"referral_code"`
}

// LoginInput represents login input
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User        *models.UserResponse `json:"user"`
	AccessToken string               `json:"access_token"`
}

func (in *RegisterInput) validate() error {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.FirstName == "" || in.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return fmt.Errorf("%w: a valid email is required", domain.ErrInvalidInput)
	}
	if !password.ValidatePassword(in.Password) {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, password.MinLength)
	}
	if in.Role == "" {
		in.Role = domain.RoleJobseeker
	}
	// admins are promoted, never self-registered
	if in.Role != domain.RoleJobseeker && in.Role != domain.RoleEmployer {
		return fmt.Errorf("%w: role must be jobseeker or employer", domain.ErrInvalidInput)
	}
	return nil
}

// Register registers a new user. A referral code is checked before the account is
// created so an unknown code rejects the whole registration.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Validate input
	if err := input.validate(); err != nil {
		return nil, err
	}

	// 2. Check the referral code before creating anything
	code := NormalizeCode(input.ReferralCode)
	if code != "" {
		if _, err := s.referrals.ResolveCode(ctx, code); err != nil {
			return nil, err
		}
	}

	// 3. Check if email already exists
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserAlreadyExists
	}

	// 4. Hash password
	hashed, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 5. Create user
	user := &models.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Email:     input.Email,
		Phone:     strings.TrimSpace(input.Phone),
		Password:  hashed,
		Role:      input.Role,
		IsActive:  true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repositories.IsDuplicateKey(err) {
			return nil, domain.ErrUserAlreadyExists
		}
		return nil, err
	}

	// 6. Link the referral; the account stays even if linking fails
	if code != "" {
		if _, err := s.referrals.CreateReferral(ctx, user.ID, code); err != nil {
			s.log.Warn("referral not linked at registration",
				zap.Uint("user_id", user.ID),
				zap.String("code", code),
				zap.Error(err),
			)
		} else {
			user.ReferredBy = &code
		}
	}

	// 7. Issue token
	token, err := s.signer.Sign(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Uint("user_id", user.ID), zap.String("role", string(user.Role)))

	return &AuthResponse{User: user.ToResponse(), AccessToken: token}, nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(input.Password, user.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	token, err := s.signer.Sign(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.Uint("user_id", user.ID))

	return &AuthResponse{User: user.ToResponse(), AccessToken: token}, nil
}

// Me returns the authenticated user
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user.ToResponse(), nil
}
