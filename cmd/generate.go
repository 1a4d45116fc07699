package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/y4m4usr/hl001-quiz-must1/internal/app"
	"github.com/y4m4usr/hl001-quiz-must1/internal/ui/components"
	"github.com/y4m4usr/hl001-quiz-must1/internal/ui/theme"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate quiz questions from the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		asJSON, _ := cmd.Flags().GetBool("json")
		offline, _ := cmd.Flags().GetBool("offline")
		reveal, _ := cmd.Flags().GetBool("reveal")

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		s, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		a, err := app.New(app.Options{
			Config:    cfg,
			Logger:    logger,
			EventRepo: s.EventRepo(),
			Offline:   offline,
		})
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		if asJSON {
			res := a.Generator.Result(ctx, count)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			if !res.Success {
				return errors.New(res.Message)
			}
			return nil
		}

		questions, err := a.Generator.Generate(ctx, count)
		if err != nil {
			return fmt.Errorf("generate questions: %w", err)
		}

		for _, q := range questions {
			lipgloss.Fprintln(cmd.OutOrStdout(), components.QuestionCard{Question: q, Reveal: reveal}.View())
		}
		lipgloss.Fprintln(cmd.OutOrStdout(), theme.Subtitle.Render(fmt.Sprintf("%d問の問題を生成しました", len(questions))))
		return nil
	},
}

func init() {
	generateCmd.Flags().IntP("count", "n", 10, "Number of questions to generate")
	generateCmd.Flags().Bool("json", false, "Print the result as JSON")
	generateCmd.Flags().Bool("offline", false, "Skip image probes and use fallback URLs")
	generateCmd.Flags().Bool("reveal", false, "Mark the correct answers")
}
