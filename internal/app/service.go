// Package service wires the identity resolver, the period queue, the worker
// pool and the season ledger into the operations exposed by the HTTP API
// and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/okian/byline/internal/adapters/mq/queue"
	workerpool "github.com/okian/byline/internal/adapters/mq/worker"
	"github.com/okian/byline/internal/adapters/repository"
	"github.com/okian/byline/internal/domain/aggregate"
	"github.com/okian/byline/internal/domain/calendar"
	"github.com/okian/byline/internal/domain/dedupe"
	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/internal/domain/scoring"
	"github.com/okian/byline/pkg/logger"
	"github.com/okian/byline/pkg/metrics"
)

const (
	defaultSeason     = 2025
	defaultQueueSize  = 10_000
	defaultDedupeSize = 200_000
)

// SubmitResult reports what happened to a submitted period.
type SubmitResult struct {
	EventID   string `json:"event_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

// ImportSummary reports a batch import of one week.
type ImportSummary struct {
	Season     int      `json:"season"`
	Week       int      `json:"week"`
	Records    int      `json:"records"`
	Matched    int      `json:"matched"`
	Unresolved []string `json:"unresolved"`
	Identities int      `json:"identities"`
}

// Service implements the API dependencies for the season aggregation.
type Service struct {
	mu sync.RWMutex

	store   repository.Store
	ledger  *repository.Ledger
	deduper dedupe.Deduper
	queue   *eventqueue.InMemoryQueue
	scorer  scoring.Scorer
	engine  *match.Engine
	pool    *workerpool.Pool

	season      int
	maxWeek     int
	workerCount int
	queueSize   int
	dedupeSize  int
	weights     map[string]float64
	matchOpts   []match.Option

	started bool
	cancel  context.CancelFunc
	clock   func() time.Time

	logger logger.Logger
}

// New constructs a Service persisting to store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		season:      defaultSeason,
		maxWeek:     calendar.DefaultMaxWeek,
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.scorer = scoring.NewInMemoryScorer(scoring.WithWeightsFromConfig(s.weights))
	s.engine = match.New(s.matchOpts...)
	return s
}

// Season returns the season the service aggregates.
func (s *Service) Season() int { return s.season }

// Engine returns the identity match engine.
func (s *Service) Engine() *match.Engine { return s.engine }

// Start seeds the ledger and the deduper from the store and starts the
// workers. Workers outlive ctx; they stop in Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting season service", logger.Int("season", s.season))

	s.ledger = repository.NewLedger(s.season, repository.WithClock(s.clock))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))

	perfs, err := s.store.Performances(ctx, s.season)
	if err != nil {
		return fmt.Errorf("load performances: %w", err)
	}
	s.replaceTotals(ctx, perfs)
	s.recordPeriods(ctx, perfs)

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.scorer, s.ledger,
		workerpool.WithRecorder(s.store))
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "season service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("performances", len(perfs)),
		logger.Int("identities", s.ledger.Count(ctx)),
	)
	return nil
}

// Stop drains the queue, stops the workers and persists the totals.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping season service")

	var errs []error
	if err := s.pool.Drain(ctx); err != nil {
		errs = append(errs, err)
		_ = s.pool.Shutdown(ctx)
	}
	s.cancel()

	if err := s.store.SaveTotals(ctx, s.season, s.ledger.Snapshot(ctx)); err != nil {
		errs = append(errs, fmt.Errorf("persist totals: %w", err))
	}

	s.started = false
	s.logger.Info(ctx, "season service stopped")
	return errors.Join(errs...)
}

// Resolve links primary identities to candidates and records the pass.
func (s *Service) Resolve(ctx context.Context, primary, candidates []model.IdentityRecord) match.Resolution {
	start := time.Now()
	res := s.engine.Resolve(ctx, primary, candidates)

	counts := make(map[string]int, 3)
	for strategy, n := range res.CountByStrategy() {
		counts[string(strategy)] = n
	}
	for _, l := range res.Links {
		metrics.RecordMatchConfidence(l.Confidence)
	}
	metrics.RecordResolution(counts, len(res.Unresolved), metrics.SinceMs(start))
	return res
}

// SubmitPeriod queues p for aggregation. A period already accepted for the
// same identity is reported as a duplicate and not queued again.
func (s *Service) SubmitPeriod(ctx context.Context, p model.PeriodPerformance) (SubmitResult, error) {
	if err := s.running(); err != nil {
		return SubmitResult{}, err
	}
	p, err := s.checkPeriod(p)
	if err != nil {
		return SubmitResult{}, err
	}

	key := dedupe.PeriodKey(p.Season, p.Period, p.IdentityKey)
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordPeriodDuplicate()
		s.logger.Debug(ctx, "duplicate period submission", logger.String("key", key))
		return SubmitResult{Duplicate: true}, nil
	}

	e := eventqueue.Event{EventID: uuid.NewString(), Performance: p, ReceivedAt: s.clock().UTC()}
	if err := s.queue.Enqueue(ctx, e); err != nil {
		s.deduper.Unrecord(ctx, key)
		if errors.Is(err, eventqueue.ErrFull) || errors.Is(err, eventqueue.ErrClosed) {
			return SubmitResult{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return SubmitResult{}, err
	}
	return SubmitResult{EventID: e.EventID}, nil
}

// ApplyPeriod aggregates p synchronously, bypassing the queue. It returns
// repository.ErrDuplicatePeriod when the period was already counted.
func (s *Service) ApplyPeriod(ctx context.Context, p model.PeriodPerformance) (*model.SeasonTotals, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	p, err := s.checkPeriod(p)
	if err != nil {
		return nil, err
	}

	key := dedupe.PeriodKey(p.Season, p.Period, p.IdentityKey)
	if s.deduper.SeenAndRecord(ctx, key) {
		metrics.RecordPeriodDuplicate()
		t, _ := s.ledger.Get(ctx, p.IdentityKey)
		return t, fmt.Errorf("%w: %s", repository.ErrDuplicatePeriod, key)
	}

	if p.Points == nil {
		pts, err := s.scorer.Score(ctx, p.Stats)
		if err != nil {
			s.deduper.Unrecord(ctx, key)
			return nil, err
		}
		p.Points = &pts
	}
	t, err := s.ledger.Apply(ctx, p)
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicatePeriod) {
			s.deduper.Unrecord(ctx, key)
		}
		return t, err
	}
	if err := s.store.UpsertPerformance(ctx, p); err != nil {
		return t, fmt.Errorf("record performance: %w", err)
	}
	return t, nil
}

// ImportPeriod loads a whole week in one batch: identities are resolved
// against the stored player directory, the week replaces any earlier copy
// and the totals are rebuilt, so re-importing a week never double counts.
func (s *Service) ImportPeriod(ctx context.Context, week int, perfs []model.PeriodPerformance) (ImportSummary, error) {
	if err := s.running(); err != nil {
		return ImportSummary{}, err
	}
	if week < 1 || week > s.maxWeek {
		metrics.RecordPeriodRejected()
		return ImportSummary{}, fmt.Errorf("%w: week %d outside 1..%d", ErrInvalidPeriod, week, s.maxWeek)
	}

	players, err := s.store.Players(ctx)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("load players: %w", err)
	}
	resolved, res := ResolveKeys(ctx, s.engine, players, perfs)
	for i := range resolved {
		resolved[i].Season = s.season
		resolved[i].Period = week
	}

	batch := make([]model.PeriodPerformance, 0, len(resolved))
	for _, p := range aggregate.Dedupe(resolved)[week] {
		batch = append(batch, p)
	}
	for i := range batch {
		if batch[i].Points == nil {
			pts, err := s.scorer.Score(ctx, batch[i].Stats)
			if err != nil {
				return ImportSummary{}, err
			}
			batch[i].Points = &pts
		}
	}

	stored, err := s.store.Performances(ctx, s.season)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("load performances: %w", err)
	}
	if err := s.store.ReplacePeriod(ctx, s.season, week, batch); err != nil {
		return ImportSummary{}, fmt.Errorf("replace week %d: %w", week, err)
	}
	n, err := s.RebuildTotals(ctx)
	if err != nil {
		return ImportSummary{}, err
	}
	// The replaced copy of the week no longer counts; only the new batch does.
	for _, p := range stored {
		if p.Period == week {
			s.deduper.Unrecord(ctx, dedupe.PeriodKey(s.season, week, p.IdentityKey))
		}
	}
	s.recordPeriods(ctx, batch)

	summary := ImportSummary{
		Season:     s.season,
		Week:       week,
		Records:    len(batch),
		Matched:    len(res.Links),
		Unresolved: res.Unresolved,
		Identities: n,
	}
	s.logger.Info(ctx, "week imported",
		logger.Int("week", week),
		logger.Int("records", summary.Records),
		logger.Int("matched", summary.Matched),
		logger.Int("unresolved", len(summary.Unresolved)),
	)
	return summary, nil
}

// RebuildTotals recomputes the season totals from the persisted weekly
// performances, keeping one record per identity and week, and persists
// them. It returns the number of identities.
func (s *Service) RebuildTotals(ctx context.Context) (int, error) {
	if err := s.running(); err != nil {
		return 0, err
	}
	perfs, err := s.store.Performances(ctx, s.season)
	if err != nil {
		return 0, fmt.Errorf("load performances: %w", err)
	}
	s.replaceTotals(ctx, perfs)
	if err := s.store.SaveTotals(ctx, s.season, s.ledger.Snapshot(ctx)); err != nil {
		return 0, fmt.Errorf("persist totals: %w", err)
	}
	return s.ledger.Count(ctx), nil
}

// recordPeriods marks every (period, identity) in perfs as already counted.
func (s *Service) recordPeriods(ctx context.Context, perfs []model.PeriodPerformance) {
	for _, p := range perfs {
		s.deduper.SeenAndRecord(ctx, dedupe.PeriodKey(s.season, p.Period, p.IdentityKey))
	}
}

func (s *Service) replaceTotals(ctx context.Context, perfs []model.PeriodPerformance) {
	start := time.Now()
	s.ledger.Replace(ctx, aggregate.Rebuild(aggregate.Dedupe(perfs)))
	metrics.RecordRebuild(metrics.SinceMs(start))
}

// Totals returns the season totals for one identity.
func (s *Service) Totals(ctx context.Context, key string) (*model.SeasonTotals, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.ledger.Get(ctx, key)
}

// ListTotals returns a page of totals ordered by identity key and the total count.
func (s *Service) ListTotals(ctx context.Context, offset, limit int) ([]*model.SeasonTotals, int, error) {
	if err := s.running(); err != nil {
		return nil, 0, err
	}
	return s.ledger.List(ctx, offset, limit)
}

// CurrentWeek returns the week containing now for a season starting at start.
func (s *Service) CurrentWeek(start time.Time) int {
	return calendar.CurrentWeek(s.clock(), start, s.maxWeek)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"season":      s.season,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len()
		stats["identities"] = s.ledger.Count(ctx)
		stats["dedupeEntries"] = s.deduper.Size()
		metrics.UpdateSystemMetrics()
	}
	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// checkPeriod fills the season and rejects records the ledger cannot take.
func (s *Service) checkPeriod(p model.PeriodPerformance) (model.PeriodPerformance, error) {
	if p.Season == 0 {
		p.Season = s.season
	}
	switch {
	case p.Season != s.season:
		metrics.RecordPeriodRejected()
		return p, fmt.Errorf("%w: %d, serving %d", ErrSeasonMismatch, p.Season, s.season)
	case p.IdentityKey == "":
		metrics.RecordPeriodRejected()
		return p, fmt.Errorf("%w: empty identity key", ErrInvalidPeriod)
	case p.Period < 1 || p.Period > s.maxWeek:
		metrics.RecordPeriodRejected()
		return p, fmt.Errorf("%w: period %d outside 1..%d", ErrInvalidPeriod, p.Period, s.maxWeek)
	}
	return p, nil
}
