package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	minCardWidth     = 24
	defaultCardWidth = 34
)

var cardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("#89b4fa")).
	Padding(0, 1)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#cba6f7"))
	valueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#a6e3a1"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f849c"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#f38ba8"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#a6e3a1"))
)

// RenderCards lays the cards out in a grid that fits into width columns.
func RenderCards(cards []Card, width int) string {
	if len(cards) == 0 {
		return ""
	}

	cardWidth := defaultCardWidth
	perRow := width / (cardWidth + 2)
	if perRow < 1 {
		perRow = 1
		cardWidth = max(width-2, minCardWidth)
	}

	var rows []string
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		boxes := make([]string, 0, end-start)
		for _, c := range cards[start:end] {
			boxes = append(boxes, renderCard(c, cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(c Card, width int) string {
	lines := []string{titleStyle.Render(c.Title)}
	for _, l := range c.Lines {
		if l.Kind == LineValue {
			lines = append(lines, valueStyle.Render(l.Text))
			continue
		}
		lines = append(lines, detailStyle.Render(l.Text))
	}
	return cardStyle.Width(width).Render(strings.Join(lines, "\n"))
}

// ErrorLine styles an error message for the terminal.
func ErrorLine(msg string) string {
	return errorStyle.Render("⚠ " + msg)
}

// NoticeLine styles a success notice for the terminal.
func NoticeLine(msg string) string {
	return noticeStyle.Render("✓ " + msg)
}
