// Package worker drains the period queue: each event is scored if needed,
// applied to the season ledger and recorded in the store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/byline/internal/adapters/mq/queue"
	"github.com/okian/byline/internal/adapters/repository"
	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/pkg/logger"
	"github.com/okian/byline/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Event is what workers read off the queue.
type Event = queue.Event

// Updater folds one period into the season totals.
type Updater interface {
	Apply(ctx context.Context, p model.PeriodPerformance) (*model.SeasonTotals, error)
}

// Scorer computes the three point conventions for a stat line.
type Scorer interface {
	Score(ctx context.Context, stats model.StatLine) (model.Points, error)
}

// Recorder persists an applied period.
type Recorder interface {
	UpsertPerformance(ctx context.Context, p model.PeriodPerformance) error
}

// Queue defines how workers receive events.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Event
}

// Worker processes events until stopped.
type Worker interface {
	Run(ctx context.Context)
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue    Queue
	scorer   Scorer
	updater  Updater
	recorder Recorder
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, scorer Scorer, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		scorer:   scorer,
		updater:  updater,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop. It returns when ctx is done, Shutdown is
// called or the queue is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	events := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := w.process(ctx, e); err != nil {
				w.logger.Error(ctx, "error processing event",
					logger.String("event_id", e.EventID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for the loop to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: events arrive by value
	metrics.IncWorkerActive()
	start := time.Now()
	defer func() {
		metrics.DecWorkerActive()
		metrics.RecordWorkerProcessingLatency(metrics.SinceMs(start))
	}()

	p := e.Performance
	if p.Points == nil {
		pts, err := w.scorer.Score(ctx, p.Stats)
		if err != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "scoring_error")
			return fmt.Errorf("score event %s: %w", e.EventID, err)
		}
		p.Points = &pts
	}

	t, err := w.updater.Apply(ctx, p)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicatePeriod) {
			w.logger.Debug(ctx, "duplicate period ignored",
				logger.String("identity_key", p.IdentityKey),
				logger.Int("period", p.Period),
			)
			return nil
		}
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "apply_error")
		return fmt.Errorf("apply event %s: %w", e.EventID, err)
	}

	if w.recorder != nil {
		if err := w.recorder.UpsertPerformance(ctx, p); err != nil {
			metrics.RecordWorkerError()
			metrics.RecordErrorByComponent("worker", "record_error")
			return fmt.Errorf("record event %s: %w", e.EventID, err)
		}
	}

	w.logger.Debug(ctx, "period applied",
		logger.String("identity_key", t.IdentityKey),
		logger.Int("period", p.Period),
		logger.Int("games_counted", t.GamesCounted),
	)
	return nil
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates workerCount workers. A count below one uses runtime.NumCPU().
func NewPool(workerCount int, q Queue, scorer Scorer, updater Updater, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range workerCount {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, scorer, updater, wopts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Drain closes the queue and waits for the workers to process what is left.
func (p *Pool) Drain(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	drainCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-drainCtx.Done():
			p.logger.Warn(ctx, "worker drain timed out", logger.Int("worker_id", i))
			return fmt.Errorf("drain: %w", drainCtx.Err())
		}
	}
	return nil
}

// Shutdown stops all workers without waiting for the queue to drain.
func (p *Pool) Shutdown(ctx context.Context) error {
	var errs []error
	for _, w := range p.workers {
		if err := w.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
