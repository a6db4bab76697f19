package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/adapters/persistence/repositories"
	"careerhub-api/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CourseService manages courses and their modules
type CourseService struct {
	courseRepo repositories.CourseRepository
	log        *zap.Logger
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo repositories.CourseRepository, log *zap.Logger) *CourseService {
	return &CourseService{courseRepo: courseRepo, log: log}
}

// Actor is the authenticated caller
type Actor struct {
	UserID uint
	Role   domain.Role
}

// CourseInput represents create course input
type CourseInput struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Level       string        `json:"level"`
	Price       float64       `json:"price"`
	Thumbnail   string        `json:"thumbnail"`
	Duration    string        `json:"duration"`
	Modules     []ModuleInput `json:"modules"`
}

// UpdateCourseInput represents update course input
type UpdateCourseInput struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	Level       *string  `json:"level"`
	Price       *float64 `json:"price"`
	Thumbnail   *string  `json:"thumbnail"`
	Duration    *string  `json:"duration"`
}

// ModuleInput represents a module payload
type ModuleInput struct {
	Title string            `json:"title"`
	Type  domain.ModuleType `json:"type"`
	URL   string            `json:"url"`
}

var courseLevels = map[string]bool{"Beginner": true, "Intermediate": true, "Advanced": true}

func (in *ModuleInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.URL = strings.TrimSpace(in.URL)
	if in.Title == "" {
		return fmt.Errorf("%w: module title is required", domain.ErrInvalidInput)
	}
	if !in.Type.IsValid() {
		return fmt.Errorf("%w: module type must be Video, Article, Quiz or Assignment", domain.ErrInvalidInput)
	}
	if in.Type.RequiresURL() && in.URL == "" {
		return fmt.Errorf("%w: %s modules require a url", domain.ErrInvalidInput, in.Type)
	}
	return nil
}

func validateCourseFields(title, description, category, level string, price float64) error {
	if strings.TrimSpace(title) == "" || len(title) > 100 {
		return fmt.Errorf("%w: title is required and must be at most 100 characters", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(description) == "" || len(description) > 500 {
		return fmt.Errorf("%w: description is required and must be at most 500 characters", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(category) == "" {
		return fmt.Errorf("%w: category is required", domain.ErrInvalidInput)
	}
	if level != "" && !courseLevels[level] {
		return fmt.Errorf("%w: level must be Beginner, Intermediate or Advanced", domain.ErrInvalidInput)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

// Create creates a course; the caller becomes its instructor
func (s *CourseService) Create(ctx context.Context, actor Actor, input *CourseInput) (*models.Course, error) {
	if !actor.Role.CanAuthorCourses() {
		return nil, domain.ErrForbidden
	}
	if err := validateCourseFields(input.Title, input.Description, input.Category, input.Level, input.Price); err != nil {
		return nil, err
	}

	course := &models.Course{
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Category:     strings.TrimSpace(input.Category),
		Level:        input.Level,
		Price:        input.Price,
		Thumbnail:    input.Thumbnail,
		Duration:     input.Duration,
		InstructorID: actor.UserID,
	}
	if course.Level == "" {
		course.Level = "Beginner"
	}

	for i := range input.Modules {
		m := input.Modules[i]
		if err := m.validate(); err != nil {
			return nil, err
		}
		course.Modules = append(course.Modules, models.Module{
			Title:    m.Title,
			Type:     m.Type,
			URL:      m.URL,
			Position: i + 1,
		})
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.log.Info("course created", zap.Uint("course_id", course.ID), zap.Uint("instructor_id", actor.UserID))
	return course, nil
}

// GetByID gets a course with its modules
func (s *CourseService) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// List lists courses, optionally by category
func (s *CourseService) List(ctx context.Context, category string, offset, limit int) ([]*models.Course, int64, error) {
	return s.courseRepo.List(ctx, strings.TrimSpace(category), offset, limit)
}

// Update updates course fields; owner or admin only
func (s *CourseService) Update(ctx context.Context, actor Actor, id uint, input *UpdateCourseInput) (*models.Course, error) {
	course, err := s.ownedCourse(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		course.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		course.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		course.Category = strings.TrimSpace(*input.Category)
	}
	if input.Level != nil {
		course.Level = *input.Level
	}
	if input.Price != nil {
		course.Price = *input.Price
	}
	if input.Thumbnail != nil {
		course.Thumbnail = *input.Thumbnail
	}
	if input.Duration != nil {
		course.Duration = *input.Duration
	}

	if err := validateCourseFields(course.Title, course.Description, course.Category, course.Level, course.Price); err != nil {
		return nil, err
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete deletes a course; owner or admin only
func (s *CourseService) Delete(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.ownedCourse(ctx, actor, id); err != nil {
		return err
	}
	if err := s.courseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrCourseNotFound
		}
		return err
	}
	s.log.Info("course deleted", zap.Uint("course_id", id))
	return nil
}

// AddModule appends a module to the end of the course
func (s *CourseService) AddModule(ctx context.Context, actor Actor, courseID uint, input *ModuleInput) (*models.Course, error) {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	module := &models.Module{
		CourseID: courseID,
		Title:    input.Title,
		Type:     input.Type,
		URL:      input.URL,
	}
	if err := s.courseRepo.AddModule(ctx, module); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, courseID)
}

// UpdateModule replaces a module's title, type and url
func (s *CourseService) UpdateModule(ctx context.Context, actor Actor, courseID, moduleID uint, input *ModuleInput) (*models.Course, error) {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	module, err := s.courseRepo.GetModule(ctx, courseID, moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrModuleNotFound
		}
		return nil, err
	}

	module.Title = input.Title
	module.Type = input.Type
	module.URL = input.URL
	if err := s.courseRepo.UpdateModule(ctx, module); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, courseID)
}

// RemoveModule removes a module. Completions already recorded for it stop counting.
func (s *CourseService) RemoveModule(ctx context.Context, actor Actor, courseID, moduleID uint) (*models.Course, error) {
	if _, err := s.ownedCourse(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if err := s.courseRepo.DeleteModule(ctx, courseID, moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrModuleNotFound
		}
		return nil, err
	}
	return s.GetByID(ctx, courseID)
}

func (s *CourseService) ownedCourse(ctx context.Context, actor Actor, id uint) (*models.Course, error) {
	course, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course.InstructorID != actor.UserID && actor.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	return course, nil
}
