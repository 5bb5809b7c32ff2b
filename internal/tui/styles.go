package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/voyage/internal/trip"
)

// Palette: sky and sea with a lantern accent.
var (
	colorPrimary   = lipgloss.Color("#0EA5E9") // sky
	colorSecondary = lipgloss.Color("#14B8A6") // jade
	colorAccent    = lipgloss.Color("#F97316") // lantern
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#22C55E")
	colorWarning   = lipgloss.Color("#EAB308")
	colorError     = lipgloss.Color("#EF4444")
	colorInk       = lipgloss.Color("#0F172A")
	colorPaper     = lipgloss.Color("#E2E8F0")
	colorBorder    = lipgloss.Color("#334155")
	colorSea       = lipgloss.Color("#818CF8")
)

var (
	activeTabStyle = lipgloss.NewStyle().Bold(true).Padding(0, 2).
			Foreground(colorInk).Background(colorPrimary)
	inactiveTabStyle = lipgloss.NewStyle().Padding(0, 2).Foreground(colorMuted)

	panelStyle = lipgloss.NewStyle().Padding(1, 2).
			Border(lipgloss.RoundedBorder()).BorderForeground(colorBorder)
	activePanelStyle = panelStyle.BorderForeground(colorPrimary)

	dayChipStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)
	activeDayChipStyle = dayChipStyle.Bold(true).Foreground(colorInk).Background(colorSecondary)

	bigNumberStyle = lipgloss.NewStyle().Bold(true).Align(lipgloss.Center).Foreground(colorAccent)

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorPaper)
	subtitleStyle  = lipgloss.NewStyle().Italic(true).Foreground(colorMuted)
	accentStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	successStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	highlightStyle = lipgloss.NewStyle().Foreground(colorSea)

	headerStyle = lipgloss.NewStyle().Padding(0, 1).MarginBottom(1)
	footerStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(colorMuted)

	selectedItemStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	normalItemStyle   = lipgloss.NewStyle().Foreground(colorPaper)
	doneItemStyle     = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
)

// categoryColors tints activities and budget bars by category.
var categoryColors = map[trip.Category]lipgloss.Color{
	trip.Sightseeing: colorSecondary,
	trip.Food:        colorAccent,
	trip.Transport:   colorSea,
	trip.Other:       colorMuted,
}

func categoryStyle(c trip.Category) lipgloss.Style {
	col, ok := categoryColors[c]
	if !ok {
		col = colorMuted
	}
	return lipgloss.NewStyle().Foreground(col)
}
