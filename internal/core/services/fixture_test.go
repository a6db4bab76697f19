package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"careerhub-api/internal/adapters/cache"
	"careerhub-api/internal/adapters/persistence/models"
	"careerhub-api/internal/adapters/persistence/repositories"
	"careerhub-api/internal/core/domain"
	"careerhub-api/internal/pkg/testdb"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testBaseURL = "https://careers.example.com"

type notification struct {
	kind   domain.EventType
	userID uint
	detail string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) CertificateIssued(_ context.Context, userID uint, _, _, certificateID, _ string) {
	n.record(notification{kind: domain.EventCertificateIssued, userID: userID, detail: certificateID})
}

func (n *recordingNotifier) ReferralCreated(_ context.Context, referrerID uint, _, referredName string) {
	n.record(notification{kind: domain.EventReferralCreated, userID: referrerID, detail: referredName})
}

func (n *recordingNotifier) ReferralApproved(_ context.Context, referrerID uint, _ string, points int) {
	n.record(notification{kind: domain.EventReferralApproved, userID: referrerID, detail: fmt.Sprint(points)})
}

func (n *recordingNotifier) record(item notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, item)
}

func (n *recordingNotifier) count(kind domain.EventType) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, item := range n.sent {
		if item.kind == kind {
			c++
		}
	}
	return c
}

type dispatched struct {
	userID, courseID uint
}

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []dispatched
}

func (d *recordingDispatcher) Dispatch(userID, courseID uint) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, dispatched{userID: userID, courseID: courseID})
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.jobs)
}

// evaluatingDispatcher runs the evaluator inline so tests see the certificate immediately
type evaluatingDispatcher struct {
	evaluator Evaluator
	t         *testing.T
}

func (d *evaluatingDispatcher) Dispatch(userID, courseID uint) {
	_, err := d.evaluator.Evaluate(context.Background(), userID, courseID)
	require.NoError(d.t, err)
}

type fixture struct {
	db          *gorm.DB
	log         *zap.Logger
	users       repositories.UserRepository
	courses     repositories.CourseRepository
	progresses  repositories.ProgressRepository
	certs       repositories.CertificateRepository
	referrals   repositories.ReferralRepository
	ids         *IdentifierGenerator
	notifier    *recordingNotifier
	dispatcher  *recordingDispatcher
	certSvc     *CertificateService
	evaluator   *CompletionEvaluator
	progressSvc *ProgressService
	referralSvc *ReferralService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testdb.New(t)
	log := zap.NewNop()

	f := &fixture{
		db:         db,
		log:        log,
		users:      repositories.NewUserRepository(db),
		courses:    repositories.NewCourseRepository(db),
		progresses: repositories.NewProgressRepository(db),
		certs:      repositories.NewCertificateRepository(db),
		referrals:  repositories.NewReferralRepository(db),
		notifier:   &recordingNotifier{},
		dispatcher: &recordingDispatcher{},
	}

	f.ids = NewIdentifierGenerator(f.users, f.certs)
	f.certSvc = NewCertificateService(f.certs, f.users, f.courses, f.ids, f.notifier, cache.Nop{},
		CertificateServiceConfig{BaseURL: testBaseURL}, log)
	f.evaluator = NewCompletionEvaluator(f.courses, f.progresses, f.certSvc, log)
	f.progressSvc = NewProgressService(f.progresses, f.courses, f.dispatcher, log)
	f.referralSvc = NewReferralService(f.users, f.referrals, f.ids, f.notifier, 10, log)

	return f
}

// evaluateInline makes RecordModuleCompletion evaluate synchronously
func (f *fixture) evaluateInline(t *testing.T) {
	f.progressSvc = NewProgressService(f.progresses, f.courses, &evaluatingDispatcher{evaluator: f.evaluator, t: t}, f.log)
}

func (f *fixture) createUser(t *testing.T, first string) *models.User {
	t.Helper()
	user := &models.User{
		FirstName: first,
		LastName:  "Tester",
		Email:     fmt.Sprintf("%s@example.com", first),
		Password:  "hashed",
		Role:      domain.RoleJobseeker,
		IsActive:  true,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func (f *fixture) createUserWithCode(t *testing.T, first, code string) *models.User {
	t.Helper()
	user := f.createUser(t, first)
	ok, err := f.users.SetReferralCodeIfEmpty(context.Background(), user.ID, code)
	require.NoError(t, err)
	require.True(t, ok)
	user.ReferralCode = &code
	return user
}

func (f *fixture) createCourse(t *testing.T, title string, moduleCount int) *models.Course {
	t.Helper()
	course := &models.Course{
		Title:        title,
		Description:  "A course about " + title,
		Category:     "Engineering",
		Level:        "Beginner",
		InstructorID: 1,
	}
	for i := 1; i <= moduleCount; i++ {
		course.Modules = append(course.Modules, models.Module{
			Title:    fmt.Sprintf("%s module %d", title, i),
			Type:     domain.ModuleQuiz,
			Position: i,
		})
	}
	require.NoError(t, f.courses.Create(context.Background(), course))

	loaded, err := f.courses.GetByID(context.Background(), course.ID)
	require.NoError(t, err)
	return loaded
}

func (f *fixture) certificateCount(t *testing.T, userID, courseID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&models.Certificate{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error)
	return count
}
