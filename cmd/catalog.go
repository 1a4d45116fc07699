package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/y4m4usr/hl001-quiz-must1/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog",
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Load the catalog and report usable rows",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		src, err := catalog.Open(cfg.CatalogPath, logger)
		if err != nil {
			return err
		}
		rows, err := src.ReadCatalog(cmd.Context())
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}

		designs := make(map[catalog.CompositeKey]bool)
		categories := make(map[string]int)
		for _, r := range rows {
			designs[r.CompositeKey()] = true
			for _, c := range r.Categories() {
				categories[c]++
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Usable rows:      %d\n", len(rows))
		fmt.Fprintf(out, "Distinct designs: %d\n", len(designs))
		fmt.Fprintf(out, "Categories:       %d\n", len(categories))

		names := make([]string, 0, len(categories))
		for c := range categories {
			names = append(names, c)
		}
		sort.Slice(names, func(i, j int) bool {
			if categories[names[i]] != categories[names[j]] {
				return categories[names[i]] > categories[names[j]]
			}
			return names[i] < names[j]
		})
		for _, c := range names {
			fmt.Fprintf(out, "  %-20s %d\n", c, categories[c])
		}

		if len(designs) < 4 {
			fmt.Fprintln(out, "\nwarning: fewer than 4 distinct designs; questions will lack distractors")
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogCheckCmd)
}
