package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"availarr/internal/api"
)

func newIndexCommand(ctx *commandContext) *cobra.Command {
	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Inspect and rebuild the availability index",
	}

	indexCmd.AddCommand(newIndexStatsCommand(ctx))
	indexCmd.AddCommand(newIndexRebuildCommand(ctx))

	return indexCmd
}

func newIndexStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show index contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService()
			if err != nil {
				return err
			}
			defer ctx.close()

			stats, err := service.Stats(cmd.Context())
			if err != nil {
				return fmt.Errorf("index stats: %w", err)
			}
			if jsonOut {
				return writeJSON(cmd, stats)
			}
			printStats(cmd, stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func newIndexRebuildCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Rebuild the index from the library now",
		RunE: func(cmd *cobra.Command, args []string) error {
			service, err := ctx.ensureService()
			if err != nil {
				return err
			}
			defer ctx.close()

			stats, err := service.Rebuild(cmd.Context())
			if err != nil {
				return fmt.Errorf("rebuild index: %w", err)
			}
			if jsonOut {
				return writeJSON(cmd, stats)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Index rebuilt")
			printStats(cmd, stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

func printStats(cmd *cobra.Command, stats api.IndexStats) {
	builtAt := "never"
	if !stats.BuiltAt.IsZero() {
		builtAt = stats.BuiltAt.Format(time.RFC3339)
	}
	rows := [][]string{
		{"External identifiers", strconv.Itoa(stats.ExternalIDs)},
		{"Title+year entries", strconv.Itoa(stats.TitleYears)},
		{"Persisted mappings", strconv.FormatInt(stats.MappingRows, 10)},
		{"Built at", builtAt},
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Metric", "Value"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
}
