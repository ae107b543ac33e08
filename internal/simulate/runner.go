package simulate

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/byline/pkg/logger"
)

const pollInterval = 100 * time.Millisecond

// Run executes a complete simulation against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.Weeks < 1 {
		cfg.Weeks = 1
	}
	log := logger.Get().Named("simulate")

	log.Info(ctx, "starting simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("weeks", cfg.Weeks),
		logger.Int("workers", cfg.Workers),
		logger.Bool("duplicates", cfg.Duplicates))

	client := newHTTPClient(cfg)
	if err := client.get(ctx, "/healthz", nil); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	periods, expected, err := generate(ctx, cfg)
	if err != nil {
		return stats, fmt.Errorf("generate periods: %w", err)
	}
	stats.PeriodsGenerated = len(periods)

	submitPeriods(ctx, cfg, client, periods, stats)
	if cfg.Duplicates {
		submitPeriods(ctx, cfg, client, periods, stats)
	}

	observed, err := waitForTotals(ctx, cfg, client, expected)
	if err != nil {
		return stats, err
	}

	stats.Verified, err = verify(expected, observed)
	stats.Duration = time.Since(start)
	if err != nil {
		return stats, err
	}

	log.Info(ctx, "simulation completed",
		logger.Int("generated", stats.PeriodsGenerated),
		logger.Int("submitted", stats.PeriodsSubmitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("failed", stats.Failed),
		logger.Int("verified", stats.Verified),
		logger.Duration("duration", stats.Duration))
	return stats, nil
}

// waitForTotals polls the totals until the queued periods are applied or
// cfg.Settle elapses.
func waitForTotals(ctx context.Context, cfg *Config, client *httpClient, expected map[string]expectation) ([]totalsEntry, error) {
	deadline := time.Now().Add(cfg.Settle)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		observed, err := client.listTotals(ctx)
		if err != nil {
			return nil, fmt.Errorf("list totals: %w", err)
		}
		if settled(expected, observed) {
			return observed, nil
		}
		if time.Now().After(deadline) {
			return observed, fmt.Errorf("%w after %s", ErrNotSettled, cfg.Settle)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
