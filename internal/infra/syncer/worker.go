package syncer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"pinecove/internal/usecase"
)

const writeTimeout = 10 * time.Second

// Worker drains fire-and-forget calendar refresh jobs into the cache on its
// own goroutine, with an explicit error channel decoupled from any request.
// Submission never blocks a user-facing request: a full queue drops the job.
type Worker struct {
	cache  usecase.CalendarCache
	jobs   chan usecase.RefreshJob
	errors chan error
	logger *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

func NewWorker(cache usecase.CalendarCache, queueSize int, logger *slog.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Worker{
		cache:  cache,
		jobs:   make(chan usecase.RefreshJob, queueSize),
		errors: make(chan error, queueSize),
		logger: logger,
		stop:   make(chan struct{}),
	}
}

func (w *Worker) Start() {
	w.done.Add(2)
	go w.run()
	go w.drainErrors()
}

func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
	})
	w.done.Wait()
}

// Submit enqueues a refresh without blocking; reports false when dropped.
func (w *Worker) Submit(job usecase.RefreshJob) bool {
	select {
	case w.jobs <- job:
		return true
	default:
		return false
	}
}

func (w *Worker) run() {
	defer w.done.Done()
	defer close(w.errors)
	for {
		select {
		case <-w.stop:
			return
		case job := <-w.jobs:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			if err := w.cache.Write(ctx, job.ResourceID, job.Entries); err != nil {
				select {
				case w.errors <- err:
				default:
				}
			}
			cancel()
		}
	}
}

func (w *Worker) drainErrors() {
	defer w.done.Done()
	for err := range w.errors {
		w.logger.Warn("calendar cache refresh failed", "error", err)
	}
}
