package services

import (
	"context"
	"errors"

	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/adapters/persistence/repositories"
	"careerhub-api/internal/core/domain"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService records module completions and reports course progress
type ProgressService struct {
	progressRepo repositories.ProgressRepository
	courseRepo   repositories.CourseRepository
	dispatcher   CompletionDispatcher
	log          *zap.Logger
	now          Clock
}

// NewProgressService creates a new progress service
func NewProgressService(
	progressRepo repositories.ProgressRepository,
	courseRepo repositories.CourseRepository,
	dispatcher CompletionDispatcher,
	log *zap.Logger,
) *ProgressService {
	return &ProgressService{
		progressRepo: progressRepo,
		courseRepo:   courseRepo,
		dispatcher:   dispatcher,
		log:          log,
		now:          systemClock,
	}
}

// CourseProgress is a progress row with the derived completion figures
type CourseProgress struct {
	*models.Progress
	TotalModules         int     `json:"total_modules"`
	CompletedModules     int     `json:"completed_modules"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// RecordModuleCompletion marks moduleID done for (user, course). Repeats are no-ops.
// The completion check is dispatched afterwards and never affects the result.
func (s *ProgressService) RecordModuleCompletion(ctx context.Context, userID, courseID, moduleID uint) (*models.Progress, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	if !course.HasModule(moduleID) {
		return nil, domain.ErrInvalidModule
	}

	now := s.now()
	progress, err := s.progressRepo.GetOrCreate(ctx, userID, courseID, now)
	if err != nil {
		return nil, err
	}

	added, err := s.progressRepo.AddCompletedModule(ctx, progress.ID, moduleID, now)
	if err != nil {
		return nil, err
	}
	if added {
		if err := s.progressRepo.Touch(ctx, progress.ID, now); err != nil {
			return nil, err
		}
	}

	progress, err = s.progressRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	s.dispatcher.Dispatch(userID, courseID)

	s.log.Debug("module completion recorded",
		zap.Uint("user_id", userID),
		zap.Uint("course_id", courseID),
		zap.Uint("module_id", moduleID),
		zap.Bool("new", added),
	)

	return progress, nil
}

// GetCourseProgress returns the user's progress on one course
func (s *ProgressService) GetCourseProgress(ctx context.Context, userID, courseID uint) (*CourseProgress, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	progress, err := s.progressRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, err
	}

	completed := countCompleted(course, progress)
	total := len(course.Modules)
	return &CourseProgress{
		Progress:             progress,
		TotalModules:         total,
		CompletedModules:     completed,
		CompletionPercentage: completionPercentage(completed, total),
	}, nil
}

// ListMyCourses summarizes progress across every course the user started
func (s *ProgressService) ListMyCourses(ctx context.Context, userID uint) ([]domain.CourseProgressSummary, error) {
	progresses, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	courseIDs := make([]uint, 0, len(progresses))
	for _, p := range progresses {
		courseIDs = append(courseIDs, p.CourseID)
	}
	courses, err := s.courseRepo.GetByIDs(ctx, courseIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	summaries := make([]domain.CourseProgressSummary, 0, len(progresses))
	for _, p := range progresses {
		course, ok := byID[p.CourseID]
		if !ok {
			continue
		}
		completed := countCompleted(course, p)
		total := len(course.Modules)
		summaries = append(summaries, domain.CourseProgressSummary{
			ProgressID:           p.ID,
			CourseID:             course.ID,
			CourseTitle:          course.Title,
			Thumbnail:            course.Thumbnail,
			TotalModules:         total,
			CompletedModules:     completed,
			CompletionPercentage: completionPercentage(completed, total),
			LastAccessedAt:       p.LastAccessedAt,
		})
	}
	return summaries, nil
}
