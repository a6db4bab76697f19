package repositories

import (
	"context"

	"careerhub-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// courseRepository implements CourseRepository interface
type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func orderedModules(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

// Create creates a course together with any modules it carries
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

// GetByID gets a course with its ordered modules
func (r *courseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	err := r.db.WithContext(ctx).
		Preload("Modules", orderedModules).
		First(&course, id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetByIDs gets several courses with their modules
func (r *courseRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Course, error) {
	var courses []*models.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Modules", orderedModules).
		Where("id IN ?", ids).
		Find(&courses).Error
	return courses, err
}

// List lists courses with pagination, optionally filtered by category
func (r *courseRepository) List(ctx context.Context, category string, offset, limit int) ([]*models.Course, int64, error) {
	var courses []*models.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Course{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Modules", orderedModules).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// Update updates course fields without touching modules
func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(course).Error
}

// Delete deletes a course and its modules
func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Module{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Course{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// CountModules counts the modules of a course
func (r *courseRepository) CountModules(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Module{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// AddModule appends a module after the course's last position
func (r *courseRepository) AddModule(ctx context.Context, module *models.Module) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var last int
		err := tx.Model(&models.Module{}).
			Where("course_id = ?", module.CourseID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&last).Error
		if err != nil {
			return err
		}
		module.Position = last + 1
		return tx.Create(module).Error
	})
}

// GetModule gets a module that belongs to courseID
func (r *courseRepository) GetModule(ctx context.Context, courseID, moduleID uint) (*models.Module, error) {
	var module models.Module
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND id = ?", courseID, moduleID).
		First(&module).Error
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// UpdateModule updates a module
func (r *courseRepository) UpdateModule(ctx context.Context, module *models.Module) error {
	return r.db.WithContext(ctx).Save(module).Error
}

// DeleteModule removes a module from its course
func (r *courseRepository) DeleteModule(ctx context.Context, courseID, moduleID uint) error {
	result := r.db.WithContext(ctx).
		Where("course_id = ? AND id = ?", courseID, moduleID).
		Delete(&models.Module{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
