package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/swipematch/internal/ui/theme"
)

// Button is a styled button component.
type Button struct {
	Label   string
	Key     string
	Active  bool
	OnPress func() tea.Cmd
}

// NewButton creates a new button bound to key.
func NewButton(label, key string, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Key:     key,
		OnPress: onPress,
	}
}

// Update fires OnPress when the button's key is pressed.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		if kmsg.String() == b.Key && b.OnPress != nil {
			return b, b.OnPress()
		}
	}
	return b, nil
}

// View renders the button. Active buttons are highlighted.
func (b Button) View() string {
	label := " " + b.Label + " "
	if b.Active {
		return theme.ButtonActive.Render(label)
	}
	return theme.ButtonInactive.Render(label)
}

// ControlBar renders the reject, emphasize and accept buttons in a row.
// lean is the current drag direction: negative highlights reject, positive
// highlights accept.
func ControlBar(reject, emphasize, accept Button, lean int) string {
	reject.Active = lean < 0
	accept.Active = lean > 0
	gap := strings.Repeat(" ", 3)
	return lipgloss.JoinHorizontal(lipgloss.Center,
		reject.View(), gap, emphasize.View(), gap, accept.View())
}
