package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/byline/internal/adapters/repository"
	"github.com/okian/byline/internal/domain/model"
)

func newTotalsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "totals [identity-key]",
		Short: "Print the persisted season totals",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(cmd.Context(), func(store *repository.SQLiteStore) error {
				totals, err := store.Totals(cmd.Context(), ctx.config.Season)
				if err != nil {
					return err
				}
				if len(args) == 1 {
					totals = filterTotals(totals, args[0])
					if len(totals) == 0 {
						return fmt.Errorf("%s: %w", args[0], repository.ErrNotFound)
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTotals(totals))
				return nil
			})
		},
	}
}

func filterTotals(totals []*model.SeasonTotals, key string) []*model.SeasonTotals {
	for _, t := range totals {
		if t.IdentityKey == key {
			return []*model.SeasonTotals{t}
		}
	}
	return nil
}

const noTotals = "no totals"

func renderTotals(totals []*model.SeasonTotals) string {
	rows := make([][]string, 0, len(totals))
	for _, t := range totals {
		rows = append(rows, []string{
			t.IdentityKey,
			t.PlayerName,
			t.Position,
			t.Team,
			strconv.Itoa(t.GamesCounted),
			formatPoints(t.Points.PPR),
			formatPoints(t.Averages.PPR),
			formatPoints(t.Averages.HalfPPR),
			formatPoints(t.Averages.Standard),
		})
	}
	if len(rows) == 0 {
		return noTotals
	}
	return renderTable(
		[]string{"Key", "Player", "Pos", "Team", "Games", "PPR", "PPR/G", "Half/G", "Std/G"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}
