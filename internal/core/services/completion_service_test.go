package services

import (
	"context"
	"strings"
	"testing"

	"careerhub-api/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion_TriggersExactlyOneCertificate(t *testing.T) {
	f := newFixture(t)
	f.evaluateInline(t)
	ctx := context.Background()
	user := f.createUser(t, "eve")
	course := f.createCourse(t, "Go", 2)
	a, b := course.Modules[0].ID, course.Modules[1].ID

	_, err := f.progressSvc.RecordModuleCompletion(ctx, user.ID, course.ID, a)
	require.NoError(t, err)
	assert.EqualValues(t, 0, f.certificateCount(t, user.ID, course.ID))

	_, err = f.progressSvc.RecordModuleCompletion(ctx, user.ID, course.ID, b)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.certificateCount(t, user.ID, course.ID))

	_, err = f.progressSvc.RecordModuleCompletion(ctx, user.ID, course.ID, b)
	require.NoError(t, err)
	assert.EqualValues(t, 1, f.certificateCount(t, user.ID, course.ID))
	assert.Equal(t, 1, f.notifier.count(domain.EventCertificateIssued))
}

func TestCompletion_ExampleScenario(t *testing.T) {
	f := newFixture(t)
	f.evaluateInline(t)
	ctx := context.Background()
	u1 := f.createUser(t, "u1")
	c1 := f.createCourse(t, "C1", 2)

	for _, m := range c1.Modules {
		_, err := f.progressSvc.RecordModuleCompletion(ctx, u1.ID, c1.ID, m.ID)
		require.NoError(t, err)
	}

	certs, err := f.certs.ListByUser(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, certs, 1)

	cert := certs[0]
	assert.Equal(t, u1.ID, cert.UserID)
	assert.Equal(t, c1.ID, cert.CourseID)
	assert.Regexp(t, certificateIDPattern, cert.CertificateID)
	assert.True(t, strings.Contains(cert.CertificateURL, cert.CertificateID))
	assert.Equal(t, testBaseURL+"/verify-certificate/"+cert.CertificateID, cert.CertificateURL)
}

func TestCompletion_ZeroModuleGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "fay")
	course := f.createCourse(t, "Empty", 0)

	// a progress row with no entries, as left behind after modules were removed
	_, err := f.progresses.GetOrCreate(ctx, user.ID, course.ID, f.progressSvc.now())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := f.evaluator.Evaluate(ctx, user.ID, course.ID)
		require.NoError(t, err)
		assert.False(t, result.Completed)
		assert.Nil(t, result.Certificate)
	}
	assert.EqualValues(t, 0, f.certificateCount(t, user.ID, course.ID))
}

func TestCompletion_OnlyCurrentModulesCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := f.createUser(t, "gus")
	course := f.createCourse(t, "Go", 3)
	admin := Actor{UserID: course.InstructorID, Role: domain.RoleAdmin}
	courses := NewCourseService(f.courses, f.log)

	for _, m := range course.Modules[:2] {
		_, err := f.progressSvc.RecordModuleCompletion(ctx, user.ID, course.ID, m.ID)
		require.NoError(t, err)
	}

	// remove a completed module: 1 of the 2 remaining is done
	_, err := courses.RemoveModule(ctx, admin, course.ID, course.Modules[0].ID)
	require.NoError(t, err)

	result, err := f.evaluator.Evaluate(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalModules)
	assert.Equal(t, 1, result.CompletedModules)
	assert.False(t, result.Completed)

	_, err = f.progressSvc.RecordModuleCompletion(ctx, user.ID, course.ID, course.Modules[2].ID)
	require.NoError(t, err)

	result, err = f.evaluator.Evaluate(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, result.Completed)
	require.NotNil(t, result.Certificate)

	// repeated evaluation is a success that issues nothing new
	result, err = f.evaluator.Evaluate(ctx, user.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, result.AlreadyIssued)
	assert.Nil(t, result.Certificate)
}

func TestCompletion_UnknownCourse(t *testing.T) {
	f := newFixture(t)
	_, err := f.evaluator.Evaluate(context.Background(), 1, 4242)
	assert.ErrorIs(t, err, domain.ErrCourseNotFound)
}

func TestCompletion_NoProgressYet(t *testing.T) {
	f := newFixture(t)
	course := f.createCourse(t, "Go", 1)

	result, err := f.evaluator.Evaluate(context.Background(), 77, course.ID)
	require.NoError(t, err)
	assert.False(t, result.Completed)
	assert.Equal(t, 0, result.CompletedModules)
}
