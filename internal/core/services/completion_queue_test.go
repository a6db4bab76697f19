package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubEvaluator struct {
	mu      sync.Mutex
	calls   []dispatched
	release chan struct{}
	err     error
}

func (s *stubEvaluator) Evaluate(ctx context.Context, userID, courseID uint) (*CompletionResult, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	s.mu.Lock()
	s.calls = append(s.calls, dispatched{userID: userID, courseID: courseID})
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &CompletionResult{}, nil
}

func (s *stubEvaluator) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func TestCompletionQueue_DrainsOnStop(t *testing.T) {
	eval := &stubEvaluator{}
	q := NewCompletionQueue(eval, 3, 16, time.Second, zap.NewNop())
	q.Start()

	for i := uint(1); i <= 10; i++ {
		q.Dispatch(i, 1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Stop(ctx))
	assert.Equal(t, 10, eval.count())

	// dispatching after stop is dropped without panicking
	q.Dispatch(99, 1)
	assert.Equal(t, 10, eval.count())
	require.NoError(t, q.Stop(ctx))
}

func TestCompletionQueue_DropsWhenFull(t *testing.T) {
	eval := &stubEvaluator{release: make(chan struct{})}
	q := NewCompletionQueue(eval, 1, 1, 5*time.Second, zap.NewNop())

	// not started: the single buffer slot fills and the rest are dropped
	q.Dispatch(1, 1)
	q.Dispatch(2, 1)
	q.Dispatch(3, 1)

	q.Start()
	close(eval.release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, q.Stop(ctx))
	assert.Equal(t, 1, eval.count())
}

func TestCompletionQueue_EvaluatorErrorsAreContained(t *testing.T) {
	eval := &stubEvaluator{err: errors.New("boom")}
	q := NewCompletionQueue(eval, 1, 4, time.Second, zap.NewNop())
	q.Start()

	q.Dispatch(1, 1)
	q.Dispatch(2, 1)

	require.NoError(t, q.Stop(context.Background()))
	assert.Equal(t, 2, eval.count())
}

func TestCompletionQueue_EndToEnd(t *testing.T) {
	f := newFixture(t)
	q := NewCompletionQueue(f.evaluator, 2, 8, 5*time.Second, f.log)
	f.progressSvc = NewProgressService(f.progresses, f.courses, q, f.log)
	q.Start()

	ctx := context.Background()
	user := f.createUser(t, "dan")
	course := f.createCourse(t, "Go", 2)
	for _, m := range course.Modules {
		_, err := f.progressSvc.RecordModuleCompletion(ctx, user.ID, course.ID, m.ID)
		require.NoError(t, err)
	}

	require.NoError(t, q.Stop(context.Background()))
	assert.EqualValues(t, 1, f.certificateCount(t, user.ID, course.ID))
}
