package config

import (
	"context"

	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/core/domain"
	"careerhub-api/internal/pkg/password"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db     *gorm.DB
	cfg    *Config
	log    *zap.Logger
	hasher *password.Hasher
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB, cfg *Config, log *zap.Logger, hasher *password.Hasher) *Seeder {
	return &Seeder{db: db, cfg: cfg, log: log, hasher: hasher}
}

// Run executes all seeders
func (s *Seeder) Run(ctx context.Context) error {
	s.log.Info("running database seeders")

	if err := s.seedAdminUser(ctx); err != nil {
		s.log.Warn("admin seeder skipped", zap.Error(err))
	}

	return nil
}

// seedAdminUser creates the development admin account once.
// Production admins are promoted through PUT /users/:id.
func (s *Seeder) seedAdminUser(ctx context.Context) error {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", domain.RoleAdmin).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := s.hasher.Hash(s.cfg.SeedAdmin.Password)
	if err != nil {
		return err
	}

	admin := &models.User{
		FirstName: "Platform",
		LastName:  "Admin",
		Email:     s.cfg.SeedAdmin.Email,
		Password:  hashed,
		Role:      domain.RoleAdmin,
		IsActive:  true,
	}
	if err := s.db.WithContext(ctx).Create(admin).Error; err != nil {
		return err
	}

	s.log.Info("admin user created", zap.String("email", admin.Email))
	return nil
}
