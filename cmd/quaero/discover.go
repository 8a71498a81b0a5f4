package main

import (
	"fmt"
	"io"
	"strings"

	"quaero/internal/api"
	"quaero/internal/discover"
	"quaero/internal/studio"

	"github.com/spf13/cobra"
)

func newDiscoverCmd() *cobra.Command {
	var (
		maxSources int
		timeRange  string
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "discover <topic>",
		Short: "Find authoritative sources for a topic",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if maxSources > 0 {
				cfg.Discover.MaxSources = maxSources
			}
			if timeRange != "" {
				cfg.Discover.TimeRange = timeRange
			}

			a, err := headlessApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.Discover(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			if asJSON {
				text, err := highlighter().Value(resp)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), text)
				return nil
			}
			writeRecommendations(cmd.OutOrStdout(), resp, a.Markup())
			return nil
		},
	}
	cmd.Flags().IntVarP(&maxSources, "max-sources", "n", 0, "number of sources to return")
	cmd.Flags().StringVarP(&timeRange, "time-range", "t", "", "recency: 7d, 30d, 365d, all")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw response as JSON")
	return cmd
}

// writeRecommendations prints recommendations in response order.
func writeRecommendations(out io.Writer, resp *api.DiscoverResponse, markup studio.MarkupRenderer) {
	if planned := discover.PlannedQueries(resp); planned != "" {
		fmt.Fprintf(out, "Planned search queries: %s\n\n", planned)
	}
	if len(resp.Recommendations) == 0 {
		fmt.Fprintln(out, "No sources found.")
		return
	}
	for i, rec := range resp.Recommendations {
		meta := []string{rec.Domain()}
		if date := api.FormatPublished(rec.Published); date != "" {
			meta = append(meta, date)
		}
		meta = append(meta, fmt.Sprintf("score %.2f", rec.Score))

		fmt.Fprintf(out, "[%d] %s\n    %s\n    %s\n", i+1, rec.Title, rec.URL, strings.Join(meta, " · "))
		for _, field := range []api.Markup{rec.Why, rec.Summary} {
			text, err := markup.RenderMarkup(field)
			if err != nil || text == "" {
				continue
			}
			for _, line := range strings.Split(text, "\n") {
				fmt.Fprintln(out, "    "+line)
			}
		}
		fmt.Fprintln(out)
	}
}
