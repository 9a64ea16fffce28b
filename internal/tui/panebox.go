package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// paneBox is a rounded, titled frame. Close and Grip are drawn into the top
// and bottom borders and may carry zone markers.
type paneBox struct {
	Title   string
	Content string
	Close   string
	Grip    string
	Border  lipgloss.Color
	Focused bool
}

func (p paneBox) Render(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	width = max(width, 8)
	height = max(height, 3)

	borderStyle := lipgloss.NewStyle().Foreground(p.Border)
	titleStyle := lipgloss.NewStyle().Foreground(colorText).Bold(true)

	titlePrefix := "  "
	if p.Focused {
		titlePrefix = "● "
	}

	innerWidth := width - 2
	contentWidth := innerWidth - 2

	closeW := ansi.StringWidth(p.Close)
	title := strings.TrimSpace(titlePrefix + p.Title)
	titleText := " " + title + " "
	room := innerWidth - closeW - 2
	if ansi.StringWidth(titleText) > room {
		titleText = " " + ansi.Truncate(title, max(1, room-2), "") + " "
	}
	dashes := max(0, innerWidth-ansi.StringWidth(titleText)-closeW-1)
	leftDash := min(1, dashes)
	rightDash := dashes - leftDash

	top := borderStyle.Render("╭") +
		borderStyle.Render(strings.Repeat("─", leftDash)) +
		titleStyle.Render(titleText) +
		borderStyle.Render(strings.Repeat("─", rightDash)) +
		p.Close +
		borderStyle.Render("─╮")

	v := borderStyle.Render("│")
	lines := strings.Split(p.Content, "\n")
	rows := make([]string, 0, height)
	rows = append(rows, top)
	for i := 0; i < height-2; i++ {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, v+" "+padRight(line, contentWidth)+" "+v)
	}

	gripW := ansi.StringWidth(p.Grip)
	left := max(0, (innerWidth-gripW)/2)
	right := max(0, innerWidth-gripW-left)
	bottom := borderStyle.Render("╰"+strings.Repeat("─", left)) +
		p.Grip +
		borderStyle.Render(strings.Repeat("─", right)+"╯")
	rows = append(rows, bottom)
	return strings.Join(rows, "\n")
}
