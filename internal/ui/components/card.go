package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/swipematch/internal/ui/theme"
)

// Card is the rendered form of one deck item.
type Card struct {
	Name     string
	Text     string
	Photo    string
	Terminal bool
}

// View renders the card at the given width.
func (c Card) View(width int) string {
	var lines []string
	if c.Photo != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Render("📷 "+c.Photo), "")
	}
	if c.Name != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(c.Name))
	}
	if c.Text != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Text).Width(width-6).Render(c.Text))
	}

	style := theme.Card
	if c.Terminal {
		style = theme.CardQuestion
	}
	return style.Width(width).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

// Slide places block horizontally inside area, centered and then moved by
// shift cells. The block never leaves the area.
func Slide(block string, area, shift int) string {
	w := lipgloss.Width(block)
	left := (area-w)/2 + shift
	left = min(max(left, 0), max(area-w, 0))
	return lipgloss.NewStyle().MarginLeft(left).Render(block)
}
