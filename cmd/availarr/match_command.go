package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"availarr/internal/api"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var (
		tmdbID  int
		imdbID  string
		tvdbID  int
		title   string
		year    int
		jsonOut bool
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Test how a title resolves against the library index",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tmdbID == 0 && imdbID == "" && tvdbID == 0 && title == "" {
				return errors.New("provide at least one of --tmdb, --imdb, --tvdb, or --title")
			}

			service, err := ctx.ensureService()
			if err != nil {
				return err
			}
			defer ctx.close()

			resp := service.TestMatch(cmd.Context(), api.MatchRequest{
				TmdbID: tmdbID,
				ImdbID: imdbID,
				TvdbID: tvdbID,
				Title:  title,
				Year:   year,
			})
			if jsonOut {
				return writeJSON(cmd, resp)
			}

			out := cmd.OutOrStdout()
			if !resp.Matched {
				fmt.Fprintf(out, "No match (%s)\n", resp.Reason)
				return nil
			}
			fmt.Fprintf(out, "Matched via %s (library key %s)\n", resp.Strategy, resp.LibraryKey)
			if resp.PlexURL != "" {
				fmt.Fprintln(out, resp.PlexURL)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&tmdbID, "tmdb", 0, "TMDB identifier")
	cmd.Flags().StringVar(&imdbID, "imdb", "", "IMDB identifier (tt...)")
	cmd.Flags().IntVar(&tvdbID, "tvdb", 0, "TVDB identifier")
	cmd.Flags().StringVar(&title, "title", "", "Title for fallback matching")
	cmd.Flags().IntVar(&year, "year", 0, "Release year for fallback matching")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}
