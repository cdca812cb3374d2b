package match

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/swipematch/internal/ui/components"
	"github.com/abhisek/swipematch/internal/ui/theme"
)

const heartRows = 5

func (m *MatchScreen) View(width, height int) string {
	tokens := m.deps.Hearts.Tokens()
	ps := make([]components.Particle, 0, len(tokens))
	for _, t := range tokens {
		ps = append(ps, components.Particle{ID: t.ID, Symbol: t.Symbol})
	}

	card := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render("💘 It's a Match! 💘"),
		theme.Subtitle.Render("You said yes ✨"),
		"",
		lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(m.moment.Format()),
		theme.Hint.Render("Since that moment 💞"),
	)

	sections := []string{
		components.ParticleField(ps, width, heartRows),
		lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.CardQuestion.Render(card)),
		"",
	}

	var status string
	switch {
	case m.busy:
		status = m.spinner.View() + " " + theme.Hint.Render("Preparing… (Esc to cancel)")
	case m.failed:
		status = theme.Incorrect.Render(m.guidance)
	case m.guidance != "":
		status = theme.Correct.Render(m.guidance)
	}
	if m.link != "" {
		status = lipgloss.JoinVertical(lipgloss.Center, status, theme.Body.Render("🔗 "+m.link))
	}

	menu := lipgloss.NewStyle().Width(min(width, 40)).Render(m.menu.View())
	sections = append(sections,
		lipgloss.PlaceHorizontal(width, lipgloss.Center, menu),
		lipgloss.PlaceHorizontal(width, lipgloss.Center, lipgloss.NewStyle().Width(min(width-4, 70)).Align(lipgloss.Center).Render(status)),
	)

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Center, strings.Join(sections, "\n"))
}
