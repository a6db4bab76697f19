package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_IssuesMissedCertificates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	done := f.createUser(t, "eli")
	partial := f.createUser(t, "fin")
	course := f.createCourse(t, "Go", 2)

	// the recording dispatcher never evaluates, as if the queue dropped the jobs
	for _, m := range course.Modules {
		_, err := f.progressSvc.RecordModuleCompletion(ctx, done.ID, course.ID, m.ID)
		require.NoError(t, err)
	}
	_, err := f.progressSvc.RecordModuleCompletion(ctx, partial.ID, course.ID, course.Modules[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, f.certificateCount(t, done.ID, course.ID))

	candidates, err := f.progresses.ListCompletedWithoutCertificate(ctx, 0, 50)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, done.ID, candidates[0].UserID)

	r := NewReconcileService(f.progresses, f.evaluator, "@every 1h", 50, time.Second, f.log)

	issued, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, issued)
	assert.EqualValues(t, 1, f.certificateCount(t, done.ID, course.ID))
	assert.EqualValues(t, 0, f.certificateCount(t, partial.ID, course.ID))

	candidates, err = f.progresses.ListCompletedWithoutCertificate(ctx, 0, 50)
	require.NoError(t, err)
	assert.Empty(t, candidates)

	issued, err = r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, issued)
}

func TestReconcile_OlderCompletionNotHiddenByNewerPartialProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.createCourse(t, "Go", 2)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	done := f.createUser(t, "dana")
	f.progressSvc.now = func() time.Time { return base }
	for _, m := range course.Modules {
		_, err := f.progressSvc.RecordModuleCompletion(ctx, done.ID, course.ID, m.ID)
		require.NoError(t, err)
	}

	for i := 1; i <= 5; i++ {
		u := f.createUser(t, fmt.Sprintf("learner%d", i))
		at := base.Add(time.Duration(i) * time.Hour)
		f.progressSvc.now = func() time.Time { return at }
		_, err := f.progressSvc.RecordModuleCompletion(ctx, u.ID, course.ID, course.Modules[0].ID)
		require.NoError(t, err)
	}

	r := NewReconcileService(f.progresses, f.evaluator, "@every 1h", 2, time.Second, f.log)

	issued, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, issued)
	assert.EqualValues(t, 1, f.certificateCount(t, done.ID, course.ID))
}

func TestReconcile_WalksEveryBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.createCourse(t, "Go", 1)

	users := make([]uint, 0, 5)
	for i := 1; i <= 5; i++ {
		u := f.createUser(t, fmt.Sprintf("grad%d", i))
		_, err := f.progressSvc.RecordModuleCompletion(ctx, u.ID, course.ID, course.Modules[0].ID)
		require.NoError(t, err)
		users = append(users, u.ID)
	}

	r := NewReconcileService(f.progresses, f.evaluator, "@every 1h", 2, time.Second, f.log)

	issued, err := r.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, issued)
	for _, id := range users {
		assert.EqualValues(t, 1, f.certificateCount(t, id, course.ID))
	}
}

// blockingEvaluator holds each evaluation until its context ends
type blockingEvaluator struct {
	entered chan struct{}
	ended   chan error
}

func (e *blockingEvaluator) Evaluate(ctx context.Context, _, _ uint) (*CompletionResult, error) {
	e.entered <- struct{}{}
	<-ctx.Done()
	e.ended <- ctx.Err()
	return nil, ctx.Err()
}

func TestReconcile_StopCancelsRunningSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	course := f.createCourse(t, "Go", 1)
	u := f.createUser(t, "gil")
	_, err := f.progressSvc.RecordModuleCompletion(ctx, u.ID, course.ID, course.Modules[0].ID)
	require.NoError(t, err)

	eval := &blockingEvaluator{entered: make(chan struct{}, 1), ended: make(chan error, 1)}
	r := NewReconcileService(f.progresses, eval, "@every 1h", 10, time.Hour, f.log)

	finished := make(chan struct{})
	go func() {
		r.sweep()
		close(finished)
	}()
	<-eval.entered

	stopCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	r.Stop(stopCtx)

	select {
	case err := <-eval.ended:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sweep was not cancelled")
	}

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("sweep did not return")
	}
}

func TestReconcile_StartStop(t *testing.T) {
	f := newFixture(t)
	r := NewReconcileService(f.progresses, f.evaluator, "@every 1h", 10, time.Second, f.log)
	require.NoError(t, r.Start())
	r.Stop(context.Background())

	bad := NewReconcileService(f.progresses, f.evaluator, "not a schedule", 10, time.Second, f.log)
	assert.Error(t, bad.Start())
}
