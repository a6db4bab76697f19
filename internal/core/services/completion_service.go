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

// CertificateIssuer is the part of CertificateService the evaluator needs
type CertificateIssuer interface {
	Issue(ctx context.Context, userID, courseID uint) (*models.Certificate, error)
}

// CompletionResult describes one evaluation
type CompletionResult struct {
	TotalModules     int
	CompletedModules int
	Completed        bool
	// Certificate is set when this evaluation issued one
	Certificate   *models.Certificate
	AlreadyIssued bool
}

// CompletionEvaluator decides whether a user finished a course and triggers issuance
type CompletionEvaluator struct {
	courseRepo   repositories.CourseRepository
	progressRepo repositories.ProgressRepository
	issuer       CertificateIssuer
	log          *zap.Logger
}

// NewCompletionEvaluator creates a new completion evaluator
func NewCompletionEvaluator(
	courseRepo repositories.CourseRepository,
	progressRepo repositories.ProgressRepository,
	issuer CertificateIssuer,
	log *zap.Logger,
) *CompletionEvaluator {
	return &CompletionEvaluator{
		courseRepo:   courseRepo,
		progressRepo: progressRepo,
		issuer:       issuer,
		log:          log,
	}
}

// Evaluate compares completed modules against the course's current modules.
// Only completions of modules still in the course count, and an empty course is never complete.
// Safe to call any number of times.
func (e *CompletionEvaluator) Evaluate(ctx context.Context, userID, courseID uint) (*CompletionResult, error) {
	course, err := e.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourseNotFound
		}
		return nil, err
	}

	result := &CompletionResult{TotalModules: len(course.Modules)}

	progress, err := e.progressRepo.GetByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return result, nil
		}
		return nil, err
	}

	result.CompletedModules = countCompleted(course, progress)
	if result.TotalModules == 0 || result.CompletedModules < result.TotalModules {
		return result, nil
	}
	result.Completed = true

	cert, err := e.issuer.Issue(ctx, userID, courseID)
	switch {
	case err == nil:
		result.Certificate = cert
	case errors.Is(err, domain.ErrAlreadyIssued):
		result.AlreadyIssued = true
	default:
		return nil, err
	}

	return result, nil
}

func countCompleted(course *models.Course, progress *models.Progress) int {
	done := progress.CompletedModuleIDs()
	count := 0
	for _, m := range course.Modules {
		if _, ok := done[m.ID]; ok {
			count++
		}
	}
	return count
}

// completionPercentage rounds to two decimals
func completionPercentage(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed*10000/total) / 100
}
