package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/byline/internal/adapters/repository"
	"github.com/okian/byline/internal/adapters/sources"
	"github.com/okian/byline/internal/adapters/sources/ffc"
	"github.com/okian/byline/internal/adapters/sources/sleeper"
	service "github.com/okian/byline/internal/app"
	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/pkg/logger"
)

func newCollectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "collect",
		Short: "Refresh the player directory and draft rankings and rebuild the integrated database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.config
			return ctx.withStore(cmd.Context(), func(store *repository.SQLiteStore) error {
				directory := sleeper.New(cfg.SleeperBaseURL,
					sources.WithTimeout(cfg.SourceTimeout()),
					sources.WithLogger(logger.Get().Named(sleeper.SourceName)),
				)
				rankings := ffc.New(cfg.FFCBaseURL,
					sources.WithTimeout(cfg.SourceTimeout()),
					sources.WithRequestInterval(cfg.ADPRequestInterval()),
					sources.WithLogger(logger.Get().Named(ffc.SourceName)),
				)
				collector := service.NewCollector(store, cfg.DataDir, directory, rankings,
					service.WithCollectorSeason(cfg.Season),
					service.WithADPFormats(cfg.ADPFormats, cfg.ADPLeagueSizes, cfg.ADPPrimaryFormat),
					service.WithEngine(match.New(ctx.matchOptions()...)),
				)

				summary, err := collector.Run(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderCollectionSummary(summary))
				return nil
			})
		},
	}
}

func renderCollectionSummary(s service.CollectionSummary) string {
	source := func(fromStore bool) string {
		if fromStore {
			return "stored"
		}
		return "fetched"
	}
	rows := [][]string{
		{"Season", strconv.Itoa(s.Season)},
		{"Players", fmt.Sprintf("%d (%s)", s.Players, source(s.PlayersFromStore))},
		{"Rankings", fmt.Sprintf("%d (%s)", s.Rankings, source(s.RankingsFromStore))},
		{"ADP formats", strconv.Itoa(s.Formats)},
		{"Matched", strconv.Itoa(s.Matched)},
		{"Match rate", formatPoints(s.MatchRate) + "%"},
		{"Pass", s.PassID},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
