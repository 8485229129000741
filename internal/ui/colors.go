package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme names the colors the picker renders with.
type Theme struct {
	Accent  lipgloss.Color
	Success lipgloss.Color
	Failure lipgloss.Color
	Warning lipgloss.Color
	Muted   lipgloss.Color
}

// DefaultTheme matches the studio's print-proof palette.
var DefaultTheme = Theme{
	Accent:  lipgloss.Color("#1A73E8"),
	Success: lipgloss.Color("#04B575"),
	Failure: lipgloss.Color("#FF0000"),
	Warning: lipgloss.Color("#FFA500"),
	Muted:   lipgloss.Color("#626262"),
}

var styles = NewPalette(DefaultTheme)

// Palette holds the [lipgloss.Style] for each kind of text in the picker.
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

// NewPalette derives styles from t.
func NewPalette(t Theme) *Palette {
	base := lipgloss.NewStyle()
	return &Palette{
		title: base.Foreground(t.Accent).Bold(true).MarginBottom(1),
		ok:    base.Foreground(t.Success).Bold(true),
		err:   base.Foreground(t.Failure).Bold(true),
		warn:  base.Foreground(t.Warning),
		help:  base.Foreground(t.Muted).Italic(true),
	}
}
