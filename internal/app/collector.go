package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/byline/internal/adapters/repository"
	"github.com/okian/byline/internal/adapters/sources/ffc"
	"github.com/okian/byline/internal/domain/enrich"
	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/pkg/logger"
	"github.com/okian/byline/pkg/metrics"
)

// DirectorySource fetches the player directory.
type DirectorySource interface {
	FetchPlayers(ctx context.Context) ([]model.Player, error)
}

// RankingSource fetches ADP lists keyed by format.
type RankingSource interface {
	FetchADP(ctx context.Context, season int, formats []string, leagueSizes []int) map[string][]ffc.Entry
}

// CollectionSummary reports one collection run.
type CollectionSummary struct {
	Season            int       `json:"season"`
	Players           int       `json:"players"`
	Rankings          int       `json:"rankings"`
	Formats           int       `json:"formats"`
	PlayersFromStore  bool      `json:"players_from_store"`
	RankingsFromStore bool      `json:"rankings_from_store"`
	Matched           int       `json:"matched"`
	MatchRate         float64   `json:"match_rate"`
	PassID            string    `json:"pass_id"`
	FinishedAt        time.Time `json:"finished_at"`
}

// Collector refreshes the player directory and the draft rankings of a
// season and rebuilds the integrated database.
type Collector struct {
	store     repository.Store
	directory DirectorySource
	rankings  RankingSource
	engine    *match.Engine

	season      int
	dataDir     string
	formats     []string
	leagueSizes []int
	primary     string
	clock       func() time.Time
	logger      logger.Logger
}

// CollectorOption configures a Collector.
type CollectorOption func(*Collector)

// WithCollectorSeason sets the season collected.
func WithCollectorSeason(season int) CollectorOption {
	return func(c *Collector) {
		if season > 0 {
			c.season = season
		}
	}
}

// WithADPFormats selects the ADP scoring formats, league sizes and the
// primary list.
func WithADPFormats(formats []string, leagueSizes []int, primary string) CollectorOption {
	return func(c *Collector) {
		if len(formats) > 0 {
			c.formats = formats
		}
		if len(leagueSizes) > 0 {
			c.leagueSizes = leagueSizes
		}
		if primary != "" {
			c.primary = primary
		}
	}
}

// WithEngine sets the match engine used for integration.
func WithEngine(e *match.Engine) CollectorOption {
	return func(c *Collector) {
		if e != nil {
			c.engine = e
		}
	}
}

// WithCollectorClock replaces the time source.
func WithCollectorClock(clock func() time.Time) CollectorOption {
	return func(c *Collector) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// NewCollector creates a collector that locks seasons under dataDir.
func NewCollector(store repository.Store, dataDir string, directory DirectorySource, rankings RankingSource, opts ...CollectorOption) *Collector {
	c := &Collector{
		store:       store,
		directory:   directory,
		rankings:    rankings,
		engine:      match.New(),
		season:      defaultSeason,
		dataDir:     dataDir,
		formats:     []string{"standard", "ppr", "half-ppr"},
		leagueSizes: []int{8, 10, 12, 14},
		primary:     ffc.DefaultPrimary,
		clock:       time.Now,
		logger:      logger.Get().Named("collector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run performs one collection under the season lock. Both sources are
// fetched concurrently; a source that fails or returns nothing is replaced
// by the data stored by an earlier run.
func (c *Collector) Run(ctx context.Context) (CollectionSummary, error) {
	lock, err := repository.AcquireSeasonLock(c.dataDir, c.season)
	if err != nil {
		metrics.RecordCollectionRun(metrics.OutcomeSkipped)
		return CollectionSummary{}, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			c.logger.Warn(ctx, "release season lock", logger.Error(err))
		}
	}()

	summary := CollectionSummary{Season: c.season}
	var (
		players  []model.Player
		rankings []model.DraftRanking
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		fetched, err := c.directory.FetchPlayers(gctx)
		if err == nil && len(fetched) > 0 {
			players = fetched
			return c.store.SavePlayers(gctx, fetched)
		}
		c.logger.Warn(gctx, "player directory unavailable, using stored copy", logger.Error(err))
		summary.PlayersFromStore = true
		players, err = c.store.Players(gctx)
		return err
	})
	g.Go(func() error {
		all := c.rankings.FetchADP(gctx, c.season, c.formats, c.leagueSizes)
		summary.Formats = len(all)
		if consolidated := ffc.Consolidate(all, c.primary); len(consolidated) > 0 {
			rankings = consolidated
			return c.store.SaveDraftRankings(gctx, c.season, consolidated)
		}
		c.logger.Warn(gctx, "draft rankings unavailable, using stored copy",
			logger.String("primary", c.primary), logger.Int("formats", len(all)))
		summary.RankingsFromStore = true
		var err error
		rankings, err = c.store.DraftRankings(gctx, c.season)
		return err
	})
	if err := g.Wait(); err != nil {
		metrics.RecordCollectionRun(metrics.OutcomeError)
		return summary, fmt.Errorf("collect season %d: %w", c.season, err)
	}

	primary := make([]model.IdentityRecord, len(players))
	for i, p := range players {
		primary[i] = p.Identity()
	}
	candidates := make([]model.IdentityRecord, len(rankings))
	for i, r := range rankings {
		candidates[i] = r.Identity()
	}
	res := c.engine.Resolve(ctx, primary, candidates)

	now := c.clock().UTC()
	db := enrich.Integrate(c.season, players, rankings, res, now)
	if err := c.store.SaveIntegration(ctx, db); err != nil {
		metrics.RecordCollectionRun(metrics.OutcomeError)
		return summary, fmt.Errorf("save integration: %w", err)
	}
	metrics.UpdateIntegrationMatchRate(db.Meta.MatchRate)
	metrics.RecordCollectionRun(metrics.OutcomeSuccess)

	summary.Players = len(players)
	summary.Rankings = len(rankings)
	summary.Matched = db.Meta.Matched
	summary.MatchRate = db.Meta.MatchRate
	summary.PassID = db.Meta.PassID
	summary.FinishedAt = now

	c.logger.Info(ctx, "collection finished",
		logger.Int("season", c.season),
		logger.Int("players", summary.Players),
		logger.Int("rankings", summary.Rankings),
		logger.Int("matched", summary.Matched),
		logger.Float64("match_rate", summary.MatchRate),
	)
	return summary, nil
}
