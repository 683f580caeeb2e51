package main

import "github.com/charmbracelet/lipgloss"

type theme struct {
	Header    lipgloss.Style
	Layer     lipgloss.Style
	Chord     lipgloss.Style
	Muted     lipgloss.Style
	Enum      lipgloss.Style
	Success   lipgloss.Style
	Danger    lipgloss.Style
	ErrorItem lipgloss.Style
}

func defaultTheme() theme {
	accent := lipgloss.Color("#00FFFF")
	secondary := lipgloss.Color("#7D7D7D")
	success := lipgloss.Color("#00FF00")
	danger := lipgloss.Color("#FF0055")

	return theme{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(accent),
		Layer: lipgloss.NewStyle().
			Bold(true),
		Chord: lipgloss.NewStyle().
			Foreground(accent),
		Muted: lipgloss.NewStyle().
			Foreground(secondary),
		Enum: lipgloss.NewStyle().
			Foreground(secondary).
			MarginRight(1),
		Success: lipgloss.NewStyle().
			Foreground(success),
		Danger: lipgloss.NewStyle().
			Bold(true).
			Foreground(danger),
		ErrorItem: lipgloss.NewStyle().
			PaddingLeft(2),
	}
}
