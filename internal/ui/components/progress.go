package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/y4m4usr/hl001-quiz-must1/internal/ui/theme"
)

// RateBar displays a ratio, such as the share of probes that found an
// image, as a horizontal bar.
type RateBar struct {
	Label       string
	Ratio       float64
	ShowPercent bool
	Width       int
}

// NewRateBar creates a new rate bar.
func NewRateBar(label string, ratio float64, showPercent bool, width int) RateBar {
	return RateBar{
		Label:       label,
		Ratio:       ratio,
		ShowPercent: showPercent,
		Width:       width,
	}
}

// View renders the bar.
func (p RateBar) View() string {
	var result string

	if p.Label != "" {
		result += theme.Body.Render(p.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	percentWidth := 0
	if p.ShowPercent {
		percentWidth = 6 // "  100%"
	}

	barWidth := max(p.Width-labelWidth-percentWidth, 4)
	filled := min(max(int(float64(barWidth)*p.Ratio), 0), barWidth)
	empty := barWidth - filled

	result += theme.BarFilled.Render(strings.Repeat(" ", filled)) +
		theme.BarEmpty.Render(strings.Repeat(" ", empty))

	if p.ShowPercent {
		result += theme.Subtitle.Render(fmt.Sprintf("  %d%%", int(p.Ratio*100)))
	}

	return result
}
