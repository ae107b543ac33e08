package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/okian/byline/internal/adapters/repository"
	service "github.com/okian/byline/internal/app"
	"github.com/okian/byline/internal/config"
	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/pkg/logger"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

// ensureConfig loads the configuration once and initializes logging on
// stderr so command output on stdout stays clean.
func (c *commandContext) ensureConfig(ctx context.Context) (*config.Config, error) {
	c.configOnce.Do(func() {
		if c.configFlag != nil {
			if path := strings.TrimSpace(*c.configFlag); path != "" {
				if err := os.Setenv(config.EnvConfigFile, path); err != nil {
					c.configErr = err
					return
				}
			}
		}
		cfg, err := config.Load(ctx)
		if err != nil {
			c.configErr = err
			return
		}
		if err := logger.InitWithFormat(os.Stderr, logger.Format(cfg.LogFormat)); err != nil {
			c.configErr = fmt.Errorf("init logging: %w", err)
			return
		}
		if err := logger.SetLevelString(cfg.LogLevel); err != nil {
			c.configErr = fmt.Errorf("log level: %w", err)
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// withStore opens the season database for the duration of fn.
func (c *commandContext) withStore(ctx context.Context, fn func(*repository.SQLiteStore) error) error {
	store, err := repository.OpenSQLite(ctx, c.config.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) matchOptions() []match.Option {
	opts := []match.Option{match.WithFuzzyThreshold(c.config.FuzzyThreshold)}
	if c.config.SortedCandidates {
		opts = append(opts, match.WithSortedCandidates())
	}
	return opts
}

func (c *commandContext) serviceOptions() []service.Option {
	cfg := c.config
	return []service.Option{
		service.WithLogger(logger.Get().Named("service")),
		service.WithSeason(cfg.Season),
		service.WithMaxWeek(cfg.MaxWeek),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.EventQueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithScoringWeights(cfg.ScoringWeights),
		service.WithMatchOptions(c.matchOptions()...),
	}
}

// withService runs fn against a started service and persists the totals
// when it returns.
func (c *commandContext) withService(ctx context.Context, fn func(*service.Service) error) error {
	return c.withStore(ctx, func(store *repository.SQLiteStore) error {
		svc := service.New(store, c.serviceOptions()...)
		if err := svc.Start(ctx); err != nil {
			return err
		}
		runErr := fn(svc)
		if err := svc.Stop(context.WithoutCancel(ctx)); err != nil && runErr == nil {
			runErr = err
		}
		return runErr
	})
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
