package repositories

import (
	"context"
	"time"

	"careerhub-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// progressRepository implements ProgressRepository interface
type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository creates a new progress repository
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func completedInOrder(db *gorm.DB) *gorm.DB {
	return db.Order("completed_at ASC, id ASC")
}

// GetOrCreate finds or creates the progress row for (user, course).
// Losing an insert race to a concurrent request falls back to reading the winner's row.
func (r *progressRepository) GetOrCreate(ctx context.Context, userID, courseID uint, now time.Time) (*models.Progress, error) {
	var progress models.Progress
	err := r.db.WithContext(ctx).
		Where(models.Progress{UserID: userID, CourseID: courseID}).
		Attrs(models.Progress{LastAccessedAt: now}).
		FirstOrCreate(&progress).Error
	if err == nil {
		return &progress, nil
	}
	if !IsDuplicateKey(translateError(err)) {
		return nil, err
	}

	progress = models.Progress{}
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// AddCompletedModule records a module completion; the unique (progress, module) index
// turns repeats into no-ops.
func (r *progressRepository) AddCompletedModule(ctx context.Context, progressID, moduleID uint, at time.Time) (bool, error) {
	entry := &models.CompletedModule{
		ProgressID:  progressID,
		ModuleID:    moduleID,
		CompletedAt: at,
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	if result.Error != nil {
		if IsDuplicateKey(translateError(result.Error)) {
			return false, nil
		}
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Touch updates the last accessed time
func (r *progressRepository) Touch(ctx context.Context, progressID uint, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Progress{}).
		Where("id = ?", progressID).
		Update("last_accessed_at", at).Error
}

// GetByUserAndCourse gets progress with its completed modules
func (r *progressRepository) GetByUserAndCourse(ctx context.Context, userID, courseID uint) (*models.Progress, error) {
	var progress models.Progress
	err := r.db.WithContext(ctx).
		Preload("ModulesCompleted", completedInOrder).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListByUser lists all progress rows of a user, most recently accessed first
func (r *progressRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Progress, error) {
	var progresses []*models.Progress
	err := r.db.WithContext(ctx).
		Preload("ModulesCompleted", completedInOrder).
		Where("user_id = ?", userID).
		Order("last_accessed_at DESC").
		Find(&progresses).Error
	return progresses, err
}

// completedAllModules keeps progress rows whose completed set covers every current
// module of a course that has at least one module.
const completedAllModules = `EXISTS (SELECT 1 FROM course_modules cm WHERE cm.course_id = progresses.course_id)
AND (SELECT COUNT(*) FROM progress_modules pm
	JOIN course_modules cm ON cm.id = pm.module_id AND cm.course_id = progresses.course_id
	WHERE pm.progress_id = progresses.id)
	>= (SELECT COUNT(*) FROM course_modules cm WHERE cm.course_id = progresses.course_id)`

// ListCompletedWithoutCertificate pages through fully completed progress rows that
// have no certificate yet, in id order after afterID.
func (r *progressRepository) ListCompletedWithoutCertificate(ctx context.Context, afterID uint, limit int) ([]*models.Progress, error) {
	var progresses []*models.Progress
	err := r.db.WithContext(ctx).
		Select("progresses.*").
		Joins("LEFT JOIN certificates ON certificates.user_id = progresses.user_id AND certificates.course_id = progresses.course_id").
		Where("certificates.id IS NULL").
		Where("progresses.id > ?", afterID).
		Where(completedAllModules).
		Order("progresses.id ASC").
		Limit(limit).
		Find(&progresses).Error
	return progresses, err
}
