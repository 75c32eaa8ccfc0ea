package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for TUI components.
var (
	ColorPrimary   = lipgloss.Color("#8e44ad") // Purple, the first lane color
	ColorSecondary = lipgloss.Color("#27ae60") // Green
	ColorMuted     = lipgloss.Color("#95a5a6") // Gray
	ColorWarning   = lipgloss.Color("#f39c12") // Amber
	ColorError     = lipgloss.Color("#e74c3c") // Red
	ColorInfo      = lipgloss.Color("#3498db") // Blue
	ColorSuccess   = lipgloss.Color("#2ecc71") // Bright green
	ColorBlockText = lipgloss.Color("#ffffff")
	ColorGridLine  = lipgloss.Color("#3b3b3b")
)

// Text styles.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	ModelStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	CostStyle = lipgloss.NewStyle().
			Foreground(ColorSecondary)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ColorPrimary)

	StepStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	// SelectedStyle marks the active wizard step.
	SelectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	UnselectedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Grid styles. Cell widths are applied at render time.
var (
	DayHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Align(lipgloss.Center)

	TodayHeaderStyle = DayHeaderStyle.
				Underline(true).
				Foreground(ColorSuccess)

	GutterStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Width(6).
			Align(lipgloss.Right).
			PaddingRight(1)

	EmptyCellStyle = lipgloss.NewStyle().
			Foreground(ColorGridLine)

	BlockStyle = lipgloss.NewStyle().
			Foreground(ColorBlockText)
)

// Box styles.
var (
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(1, 2)

	HighlightBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorPrimary).
				Padding(1, 2)
)
