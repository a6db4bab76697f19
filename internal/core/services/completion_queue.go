package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Evaluator runs one completion check
type Evaluator interface {
	Evaluate(ctx context.Context, userID, courseID uint) (*CompletionResult, error)
}

type completionJob struct {
	userID   uint
	courseID uint
}

// CompletionQueue runs completion evaluations on a fixed pool of workers.
// Dispatch never blocks: a full buffer drops the job and the reconciliation
// sweep picks the pair up later.
type CompletionQueue struct {
	evaluator Evaluator
	jobs      chan completionJob
	workers   int
	timeout   time.Duration
	log       *zap.Logger

	mu       sync.RWMutex
	stopped  bool
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewCompletionQueue creates a new completion queue; call Start before dispatching
func NewCompletionQueue(evaluator Evaluator, workers, size int, timeout time.Duration, log *zap.Logger) *CompletionQueue {
	if workers < 1 {
		workers = 1
	}
	if size < 1 {
		size = 1
	}
	return &CompletionQueue{
		evaluator: evaluator,
		jobs:      make(chan completionJob, size),
		workers:   workers,
		timeout:   timeout,
		log:       log,
	}
}

// Start launches the workers
func (q *CompletionQueue) Start() {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.log.Info("completion queue started", zap.Int("workers", q.workers), zap.Int("buffer", cap(q.jobs)))
}

// Dispatch queues an evaluation for (user, course)
func (q *CompletionQueue) Dispatch(userID, courseID uint) {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.stopped {
		q.log.Warn("completion queue stopped, job dropped", zap.Uint("user_id", userID), zap.Uint("course_id", courseID))
		return
	}

	select {
	case q.jobs <- completionJob{userID: userID, courseID: courseID}:
	default:
		q.log.Warn("completion queue full, job dropped", zap.Uint("user_id", userID), zap.Uint("course_id", courseID))
	}
}

// Stop refuses new jobs, lets the workers drain the buffer and waits for them
// or for ctx to expire.
func (q *CompletionQueue) Stop(ctx context.Context) error {
	q.stopOnce.Do(func() {
		q.mu.Lock()
		q.stopped = true
		close(q.jobs)
		q.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		q.log.Info("completion queue stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *CompletionQueue) worker() {
	defer q.wg.Done()
	for job := range q.jobs {
		q.run(job)
	}
}

func (q *CompletionQueue) run(job completionJob) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error("completion job panicked", zap.Any("panic", r),
				zap.Uint("user_id", job.userID), zap.Uint("course_id", job.courseID))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), q.timeout)
	defer cancel()

	result, err := q.evaluator.Evaluate(ctx, job.userID, job.courseID)
	if err != nil {
		q.log.Error("completion evaluation failed",
			zap.Uint("user_id", job.userID),
			zap.Uint("course_id", job.courseID),
			zap.Error(err),
		)
		return
	}

	if result.Certificate != nil {
		q.log.Info("course completed",
			zap.Uint("user_id", job.userID),
			zap.Uint("course_id", job.courseID),
			zap.String("certificate_id", result.Certificate.CertificateID),
		)
	}
}
