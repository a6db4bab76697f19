package repositories

import (
	"context"
	"time"

	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/core/domain"

	"gorm.io/gorm"
)

// referralRepository implements ReferralRepository interface
type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a new referral repository
func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

// Create inserts a referral; a second referral for the same user surfaces as ErrDuplicateKey
func (r *referralRepository) Create(ctx context.Context, referral *models.Referral) error {
	return translateError(r.db.WithContext(ctx).Create(referral).Error)
}

// GetByID gets a referral by ID
func (r *referralRepository) GetByID(ctx context.Context, id uint) (*models.Referral, error) {
	var referral models.Referral
	if err := r.db.WithContext(ctx).First(&referral, id).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

// ExistsByReferredUser checks whether a user has already been referred
func (r *referralRepository) ExistsByReferredUser(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Where("referred_user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// ListByReferrer lists the referrals made by a user
func (r *referralRepository) ListByReferrer(ctx context.Context, referrerID uint) ([]*models.Referral, error) {
	var referrals []*models.Referral
	err := r.db.WithContext(ctx).
		Where("referrer_id = ?", referrerID).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, err
}

// List lists all referrals with pagination
func (r *referralRepository) List(ctx context.Context, offset, limit int) ([]*models.Referral, int64, error) {
	var referrals []*models.Referral
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Referral{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&referrals).Error
	if err != nil {
		return nil, 0, err
	}

	return referrals, total, nil
}

// UpdateStatus changes a referral's status. The approval is a conditional update on
// "status <> approved", so only the request that actually flips the row credits points.
func (r *referralRepository) UpdateStatus(ctx context.Context, id uint, status domain.ReferralStatus, rewardPoints int, at time.Time) (bool, error) {
	awarded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var referral models.Referral
		if err := tx.First(&referral, id).Error; err != nil {
			return err
		}

		if status != domain.ReferralApproved {
			return tx.Model(&models.Referral{}).
				Where("id = ?", id).
				Update("status", status).Error
		}

		result := tx.Model(&models.Referral{}).
			Where("id = ? AND status <> ?", id, domain.ReferralApproved).
			Updates(map[string]interface{}{
				"status":      status,
				"approved_at": at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}

		awarded = true
		return tx.Model(&models.User{}).
			Where("id = ?", referral.ReferrerID).
			UpdateColumn("points", gorm.Expr("points + ?", rewardPoints)).Error
	})
	if err != nil {
		return false, err
	}
	return awarded, nil
}
