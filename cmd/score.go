package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/y4m4usr/hl001-quiz-must1/internal/quiz"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a quiz score",
	Run: func(cmd *cobra.Command, args []string) {
		correct, _ := cmd.Flags().GetInt("correct")
		total, _ := cmd.Flags().GetInt("total")
		hints, _ := cmd.Flags().GetInt("hints")
		fmt.Fprintln(cmd.OutOrStdout(), quiz.CalculateScore(correct, total, hints))
	},
}

func init() {
	scoreCmd.Flags().Int("correct", 0, "Number of correct answers")
	scoreCmd.Flags().Int("total", 10, "Number of questions")
	scoreCmd.Flags().Int("hints", 0, "Number of hints used")
}
