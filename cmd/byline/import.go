package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	service "github.com/okian/byline/internal/app"
	"github.com/okian/byline/internal/domain/calendar"
	"github.com/okian/byline/internal/domain/model"
)

var errNoWeek = errors.New("season has not started; pass --week")

func newImportWeekCommand(ctx *commandContext) *cobra.Command {
	var (
		week int
		file string
	)
	cmd := &cobra.Command{
		Use:   "import-week",
		Short: "Replace one week of performances from a JSON file and rebuild the season totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var perfs []model.PeriodPerformance
			if err := readJSONFile(file, &perfs); err != nil {
				return err
			}
			if week == 0 {
				week = calendar.CurrentWeek(time.Now(), ctx.config.SeasonStartTime(), ctx.config.MaxWeek)
				if week == 0 {
					return errNoWeek
				}
			}
			return ctx.withService(cmd.Context(), func(svc *service.Service) error {
				summary, err := svc.ImportPeriod(cmd.Context(), week, perfs)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderImportSummary(summary))
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&week, "week", 0, "Week number (defaults to the current season week)")
	cmd.Flags().StringVar(&file, "file", "", "JSON array of weekly performances")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func renderImportSummary(s service.ImportSummary) string {
	unresolved := "-"
	if len(s.Unresolved) > 0 {
		unresolved = strings.Join(s.Unresolved, ", ")
	}
	rows := [][]string{
		{"Season", strconv.Itoa(s.Season)},
		{"Week", strconv.Itoa(s.Week)},
		{"Records", strconv.Itoa(s.Records)},
		{"Matched", strconv.Itoa(s.Matched)},
		{"Unresolved", unresolved},
		{"Identities", strconv.Itoa(s.Identities)},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}
