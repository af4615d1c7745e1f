package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions
var (
	primaryColor = lipgloss.Color("#02569B") // Flutter blue
	successColor = lipgloss.Color("#10b981")
	errorColor   = lipgloss.Color("#ef4444")
	mutedColor   = lipgloss.Color("#94a3b8")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	nameStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)

// Row is one line of a listing.
type Row struct {
	Name   string
	Detail string
	Note   string
}

// RenderList renders a titled listing with aligned columns.
func RenderList(title string, rows []Row) string {
	width := 0
	for _, r := range rows {
		width = max(width, lipgloss.Width(r.Name))
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(title) + "\n")
	for _, r := range rows {
		name := nameStyle.Width(width + 2).Render(r.Name)
		line := name + r.Detail
		if r.Note != "" {
			line += "  " + mutedStyle.Render(r.Note)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// RenderSummary renders the result box printed after a compile run.
func RenderSummary(compiled, failed int, elapsed string) string {
	status := successStyle.Render(fmt.Sprintf("✅ %d compiled", compiled))
	if failed > 0 {
		status += "  " + errorStyle.Render(fmt.Sprintf("❌ %d failed", failed))
	}
	return boxStyle.Render(status + "  " + mutedStyle.Render(elapsed))
}

// RenderError formats an error line.
func RenderError(err error) string {
	return errorStyle.Render("❌ ") + err.Error()
}
