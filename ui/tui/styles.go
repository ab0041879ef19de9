package tui

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Colour palette
const (
	Purple        = lipgloss.Color("#5C4F4B")
	BrightPurple  = lipgloss.Color("#724D7C")
	Lavender      = lipgloss.Color("#AEA47A")
	LightLavender = lipgloss.Color("#F3DBB2")
	Pink          = lipgloss.Color("#D33061")
	Cyan          = lipgloss.Color("#3097C6")
	Red           = lipgloss.Color("#AC3835")
	Green         = lipgloss.Color("#A6A75D")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(Pink).
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(Lavender).
			Width(8)

	valueStyle = lipgloss.NewStyle().
			Foreground(LightLavender)

	dimStyle = lipgloss.NewStyle().
			Foreground(Purple)

	statusStyle = lipgloss.NewStyle().
			Foreground(Cyan).
			MarginTop(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(Purple).
			MarginTop(1)

	playheadStyle = lipgloss.NewStyle().
			Foreground(Pink).
			Bold(true)

	trackStyle = lipgloss.NewStyle().
			Foreground(BrightPurple)

	noticeStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Green).
			Padding(1, 2)

	errorNoticeStyle = noticeStyle.
				BorderForeground(Red)
)

// formTheme returns a huh theme matching the palette
func formTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(BrightPurple).
		PaddingLeft(1)

	t.Focused.Title = lipgloss.NewStyle().
		Foreground(Pink).
		Bold(true)

	t.Focused.Description = lipgloss.NewStyle().
		Foreground(Lavender)

	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(Red)

	return t
}
