package components

import (
	"fmt"
	"strings"

	"github.com/y4m4usr/hl001-quiz-must1/internal/quiz"
	"github.com/y4m4usr/hl001-quiz-must1/internal/ui/theme"
)

// QuestionCard renders one generated question for the terminal.
type QuestionCard struct {
	Question quiz.Question

	// Reveal marks each option right or wrong and shows the product code.
	Reveal bool
}

// View renders the card.
func (c QuestionCard) View() string {
	q := c.Question
	var b strings.Builder

	b.WriteString(theme.Title.Render(fmt.Sprintf("Q%d", q.QuestionNumber)))
	if c.Reveal {
		b.WriteString("  " + theme.Subtitle.Render(q.CorrectAnswer.OriginalCode+" / "+q.CorrectAnswer.WearPeriod))
	}
	b.WriteString("\n")

	b.WriteString(theme.Subtitle.Render("lens      ") + theme.URL.Render(q.LensImageURL) + "\n")
	b.WriteString(theme.Subtitle.Render("thumbnail ") + theme.URL.Render(q.ThumbnailImageURL) + "\n\n")

	for i, o := range q.Options {
		line := fmt.Sprintf("%c) %s  %s", 'A'+i, o.BrandName, o.ColorName)
		switch {
		case c.Reveal && o.IsCorrect:
			b.WriteString(theme.Correct.Render(line + "  ✓"))
		case c.Reveal:
			b.WriteString(theme.Incorrect.Render(line + "  ✗"))
		default:
			b.WriteString(theme.Body.Render(line))
		}
		b.WriteString("\n")
	}
	if len(q.Options) < 4 {
		b.WriteString(theme.Warning.Render(fmt.Sprintf("only %d options available", len(q.Options))) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("hint 1: DIA %s  G.DIA %s  BC %s",
		orDash(q.Hint1.Dia), orDash(q.Hint1.GDia), orDash(q.Hint1.BC))))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("hint 2: " + orDash(q.Hint2.Comment)))

	return theme.Card.Render(b.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
