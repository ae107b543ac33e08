package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/byline/internal/adapters/repository"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the season datasets as JSON files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = ctx.config.DataDir
			}
			return ctx.withStore(cmd.Context(), func(store *repository.SQLiteStore) error {
				files, err := repository.Export(cmd.Context(), store, ctx.config.Season, dir)
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Output directory (defaults to data_dir)")
	return cmd
}
