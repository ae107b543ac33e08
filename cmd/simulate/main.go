package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/byline/internal/simulate"
	"github.com/okian/byline/pkg/logger"
)

// Default configuration constants.
const (
	defaultWeeks   = 4
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	defaultTimeout = 30 * time.Second
	defaultSettle  = time.Minute
)

func newRootCommand() *cobra.Command {
	cfg := &simulate.Config{}
	cmd := &cobra.Command{
		Use:           "simulate",
		Short:         "Submit mock weekly performances to a byline service and verify its totals",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("init logging: %w", err)
			}
			stats, err := simulate.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "verified %d identities from %d periods in %s\n",
				stats.Verified, stats.PeriodsGenerated, stats.Duration.Round(time.Millisecond))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	f.IntVar(&cfg.Season, "season", 0, "Season sent with each period (0 lets the service decide)")
	f.IntVar(&cfg.Weeks, "weeks", defaultWeeks, "Number of weeks to submit per player")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent submitters")
	f.DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	f.DurationVar(&cfg.Settle, "settle", defaultSettle, "How long to wait for totals to catch up")
	f.BoolVar(&cfg.Duplicates, "duplicates", true, "Resubmit every period to exercise deduplication")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		stop()
		os.Exit(1)
	}
}
