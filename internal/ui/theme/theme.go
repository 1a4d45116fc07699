package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, soft cosmetics tones that stay readable on dark terminals
var (
	Primary   = lipgloss.Color("#EC4899") // Pink
	Secondary = lipgloss.Color("#A78BFA") // Lavender
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#475569") // Slate
	Link      = lipgloss.Color("#38BDF8") // Sky
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	URL = lipgloss.NewStyle().
		Foreground(Link).
		Underline(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)
)

// States
var (
	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	Warning = lipgloss.NewStyle().
		Foreground(Accent)
)

// Components
var (
	BarFilled = lipgloss.NewStyle().
			Background(Secondary)

	BarEmpty = lipgloss.NewStyle().
			Background(Border)
)
