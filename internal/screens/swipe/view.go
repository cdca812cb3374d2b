package swipe

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/swipematch/internal/deck"
	"github.com/abhisek/swipematch/internal/ui/components"
	"github.com/abhisek/swipematch/internal/ui/layout"
	"github.com/abhisek/swipematch/internal/ui/theme"
)

const (
	cardWidth        = 44
	cardWidthCompact = 34
	effectRows       = 4
)

var (
	rejectButton    = components.NewButton("✕ Nope", "x", nil)
	emphasizeButton = components.NewButton("⭐ Super", "s", nil)
	acceptButton    = components.NewButton("♥ Like", "l", nil)
)

func (s *SwipeScreen) View(width, height int) string {
	if s.rebuff {
		return renderRebuff(width, height)
	}

	cw := cardWidth
	if layout.IsCompactWidth(width) {
		cw = cardWidthCompact
	}

	item := s.deps.Engine.Current()
	card := components.Card{
		Name:     item.Name,
		Text:     item.Text,
		Photo:    item.Photo,
		Terminal: item.Terminal,
	}.View(cw)
	if item.Terminal {
		card = lipgloss.JoinVertical(lipgloss.Center, card, theme.Hint.Render("Swipe right to say yes 💞"))
	}
	if s.banner {
		card = lipgloss.JoinVertical(lipgloss.Center, theme.Banner.Render("⭐ SUPER LIKE ⭐"), card)
	}

	shift := int(s.offset / s.deps.PixelsPerCell)
	sections := []string{
		s.renderEffects(width),
		components.Slide(card, width, shift),
		"",
	}

	if !item.Terminal {
		sections = append(sections, components.Slide(
			components.ControlBar(rejectButton, emphasizeButton, acceptButton, s.lean()),
			width, 0))
	}
	sections = append(sections, "", components.Slide(
		components.DeckProgress(s.deps.Engine.Cursor(), s.deps.Engine.Len(), cw).View(), width, 0))

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Center, strings.Join(sections, "\n"))
}

// lean reports which way the card is being dragged past the threshold.
func (s *SwipeScreen) lean() int {
	d, ok := deck.Classify(s.offset, deck.NoControl)
	switch {
	case !ok:
		return 0
	case d == deck.Reject:
		return -1
	default:
		return 1
	}
}

func (s *SwipeScreen) renderEffects(width int) string {
	if s.deps.Effects == nil {
		return strings.Repeat("\n", effectRows-1)
	}
	tokens := s.deps.Effects.Tokens()
	ps := make([]components.Particle, 0, len(tokens))
	for _, t := range tokens {
		ps = append(ps, components.Particle{ID: t.ID, Symbol: t.Symbol})
	}
	return components.ParticleField(ps, width, effectRows)
}

func renderRebuff(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Incorrect.Render("ไม่ได้นะ! 😝"),
		"",
		theme.Body.Render("ต้องปัดขวาเท่านั้น 💖"),
		"",
		theme.ButtonActive.Render(" โอเคก็ได้~ 💕 "),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Modal.Render(body))
}
