package cmd

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/y4m4usr/hl001-quiz-must1/internal/imageurl"
	"github.com/y4m4usr/hl001-quiz-must1/internal/ui/theme"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a product image URL and show every candidate probed",
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("code")
		brand, _ := cmd.Flags().GetString("brand")
		color, _ := cmd.Flags().GetString("color")
		period, _ := cmd.Flags().GetString("period")
		typ, _ := cmd.Flags().GetString("type")
		offline, _ := cmd.Flags().GetBool("offline")

		imageType, err := imageurl.ParseImageType(typ)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Image.Validate(); err != nil {
			return fmt.Errorf("invalid image configuration: %w", err)
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		checker := imageurl.NotFound
		if !offline {
			s, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer s.Close()
			checker = imageurl.WithLogging(
				imageurl.NewHTTPChecker(cfg.ProbeTimeout, logger.Named("probe")),
				s.EventRepo(), logger)
		}

		resolver := imageurl.NewResolver(cfg.Image, checker, logger)
		p := imageurl.Product{OriginalCode: code, Brand: brand, ColorName: color, WearPeriod: period}

		out := cmd.OutOrStdout()
		lipgloss.Fprintln(out, theme.Title.Render("Candidates"))
		for i, c := range resolver.Candidates(p, imageType) {
			lipgloss.Fprintln(out, theme.Subtitle.Render(fmt.Sprintf("%2d  ", i+1))+c)
		}

		url := resolver.Resolve(cmd.Context(), p, imageType)
		lipgloss.Fprintln(out)
		lipgloss.Fprintln(out, theme.Title.Render("Resolved"))
		lipgloss.Fprintln(out, theme.URL.Render(url))
		return nil
	},
}

func init() {
	resolveCmd.Flags().String("code", "", "Original product code")
	resolveCmd.Flags().String("brand", "", "Brand name")
	resolveCmd.Flags().String("color", "", "Color name")
	resolveCmd.Flags().String("period", "", "Wear period, e.g. 1day")
	resolveCmd.Flags().String("type", "lens", "Image type: lens or thumbnail")
	resolveCmd.Flags().Bool("offline", false, "Skip probes and print the fallback URL")

	for _, f := range []string{"code", "brand", "color", "period"} {
		_ = resolveCmd.MarkFlagRequired(f)
	}
}
