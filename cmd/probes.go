package cmd

import (
	"context"
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/y4m4usr/hl001-quiz-must1/internal/imageurl"
	"github.com/y4m4usr/hl001-quiz-must1/internal/store"
	"github.com/y4m4usr/hl001-quiz-must1/internal/ui/components"
)

var probesCmd = &cobra.Command{
	Use:   "probes",
	Short: "Inspect recorded image probes and generation runs",
}

var probesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent image probes",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		imageType, _ := cmd.Flags().GetString("type")
		missingOnly, _ := cmd.Flags().GetBool("missing")

		if imageType != "" {
			t, err := imageurl.ParseImageType(imageType)
			if err != nil {
				return err
			}
			imageType = string(t)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		events, err := s.EventRepo().QueryProbeEvents(ctx, store.QueryOpts{
			Limit:       limit,
			ImageType:   imageType,
			MissingOnly: missingOnly,
		})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No probe events found.")
			return nil
		}

		// Header.
		fmt.Printf("%-6s  %-19s  %-9s  %-6s  %-3s  %s\n",
			"ID", "Timestamp", "Type", "Ms", "OK", "URL")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			ok := "✓"
			if !e.Found {
				ok = "✗"
			}
			fmt.Printf("%-6d  %-19s  %-9s  %-6d  %-3s  %s\n",
				e.ID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.ImageType,
				e.LatencyMs,
				ok,
				e.URL,
			)
		}
		return nil
	},
}

var probesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show probe hit rates and latency per image type",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := context.Background()
		stats, err := s.EventRepo().ProbeStatsByImageType(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No probes recorded yet.")
			return nil
		}

		fmt.Println("Probes by Image Type")
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("%-12s  %8s  %8s  %8s\n", "Type", "Probes", "Found", "Avg Ms")
		fmt.Println(strings.Repeat("─", 60))

		var totalProbes, totalFound int
		for _, st := range stats {
			fmt.Printf("%-12s  %8d  %8d  %8d\n", st.ImageType, st.Probes, st.Found, st.AvgLatencyMs)
			totalProbes += st.Probes
			totalFound += st.Found
		}
		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("%-12s  %8d  %8d\n", "TOTAL", totalProbes, totalFound)

		fmt.Println()
		for _, st := range stats {
			ratio := 0.0
			if st.Probes > 0 {
				ratio = float64(st.Found) / float64(st.Probes)
			}
			lipgloss.Println(components.NewRateBar(fmt.Sprintf("%-12s", st.ImageType), ratio, true, 60).View())
		}
		return nil
	},
}

var probesRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent question generation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryGenerationEvents(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No generation runs found.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %5s  %5s  %5s  %-7s  %s\n",
			"Run", "Timestamp", "Asked", "Made", "Short", "Ms", "OK")
		fmt.Println(strings.Repeat("─", 100))

		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗ " + e.ErrorMessage
			}
			fmt.Printf("%-36s  %-19s  %5d  %5d  %5d  %-7d  %s\n",
				e.RunID,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Requested,
				e.Generated,
				e.ShortDistractors,
				e.LatencyMs,
				ok,
			)
		}
		return nil
	},
}

func init() {
	probesListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	probesListCmd.Flags().StringP("type", "t", "", "Filter by image type (lens or thumbnail)")
	probesListCmd.Flags().Bool("missing", false, "Only show probes that found nothing")

	probesRunsCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")

	probesCmd.AddCommand(probesListCmd)
	probesCmd.AddCommand(probesStatsCmd)
	probesCmd.AddCommand(probesRunsCmd)
}
