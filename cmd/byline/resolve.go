package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/byline/internal/domain/match"
	"github.com/okian/byline/internal/domain/model"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var primaryFile, candidatesFile string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Match two JSON files of identity records and print the links",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var primary, candidates []model.IdentityRecord
			if err := readJSONFile(primaryFile, &primary); err != nil {
				return err
			}
			if err := readJSONFile(candidatesFile, &candidates); err != nil {
				return err
			}
			res := match.New(ctx.matchOptions()...).Resolve(cmd.Context(), primary, candidates)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderResolution(res, primary, candidates))
			fmt.Fprintf(out, "matched %d of %d (%s%%), unresolved %d\n",
				len(res.Links), res.Primaries, formatPoints(res.MatchRate()), len(res.Unresolved))
			return nil
		},
	}
	cmd.Flags().StringVar(&primaryFile, "primary", "", "JSON array of primary identity records")
	cmd.Flags().StringVar(&candidatesFile, "candidates", "", "JSON array of candidate identity records")
	_ = cmd.MarkFlagRequired("primary")
	_ = cmd.MarkFlagRequired("candidates")
	return cmd
}

func renderResolution(res match.Resolution, primary, candidates []model.IdentityRecord) string {
	names := make(map[string]string, len(primary)+len(candidates))
	for _, r := range candidates {
		names["c:"+r.SourceID] = r.DisplayName
	}
	for _, r := range primary {
		names["p:"+r.SourceID] = r.DisplayName
	}

	rows := make([][]string, 0, len(res.Links))
	for _, l := range res.Links {
		rows = append(rows, []string{
			l.PrimaryID,
			names["p:"+l.PrimaryID],
			l.CandidateID,
			names["c:"+l.CandidateID],
			string(l.Strategy),
			strconv.FormatFloat(l.Confidence, 'f', 3, 64),
		})
	}
	return renderTable(
		[]string{"Primary", "Name", "Candidate", "Name", "Strategy", "Confidence"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}
