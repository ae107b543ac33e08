// Package repository persists collected and aggregated data and holds the
// in-memory season totals ledger.
package repository

import (
	"context"

	"github.com/okian/byline/internal/domain/model"
)

// Store provides read/write access to persisted state.
type Store interface {
	// SavePlayers replaces the player directory.
	SavePlayers(ctx context.Context, players []model.Player) error
	// Players returns the directory ordered by player id.
	Players(ctx context.Context) ([]model.Player, error)

	// SaveDraftRankings replaces the rankings of a season.
	SaveDraftRankings(ctx context.Context, season int, rankings []model.DraftRanking) error
	// DraftRankings returns a season's rankings ordered by ranking id.
	DraftRankings(ctx context.Context, season int) ([]model.DraftRanking, error)

	// SaveIntegration stores the integrated database of its season.
	SaveIntegration(ctx context.Context, db model.IntegratedDatabase) error
	// Integration returns ErrNotFound when the season was never integrated.
	Integration(ctx context.Context, season int) (model.IntegratedDatabase, error)

	// ReplacePeriod removes every record of the period and stores perfs in its place.
	ReplacePeriod(ctx context.Context, season, period int, perfs []model.PeriodPerformance) error
	// UpsertPerformance stores one record, replacing the same (season, period, identity).
	UpsertPerformance(ctx context.Context, p model.PeriodPerformance) error
	// Performances returns a season's records ordered by period then identity key.
	Performances(ctx context.Context, season int) ([]model.PeriodPerformance, error)

	// SaveTotals replaces a season's totals.
	SaveTotals(ctx context.Context, season int, totals []*model.SeasonTotals) error
	// Totals returns a season's totals ordered by identity key.
	Totals(ctx context.Context, season int) ([]*model.SeasonTotals, error)

	Close() error
}
