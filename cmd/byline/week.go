package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/byline/internal/domain/calendar"
)

func newWeekCommand(ctx *commandContext) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Print the current season week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := calendar.ParseDate(at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}
			w := calendar.CurrentWeek(now, ctx.config.SeasonStartTime(), ctx.config.MaxWeek)
			fmt.Fprintln(cmd.OutOrStdout(), w)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Date to evaluate, YYYY-MM-DD (defaults to today)")
	return cmd
}
