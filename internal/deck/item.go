package deck

import (
	"errors"
	"fmt"
)

// Item is a single deck entry. Items are immutable once a Deck is built.
type Item struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Text      string `yaml:"text"`
	Photo     string `yaml:"photo,omitempty"`
	HasVisual bool   `yaml:"-"`
	Terminal  bool   `yaml:"terminal,omitempty"`
}

// Deck is an ordered, finite sequence of items. Exactly one item is
// terminal and it is always the last one.
type Deck struct {
	items []Item
}

var (
	// ErrEmptyDeck is returned when a deck has no items.
	ErrEmptyDeck = errors.New("deck has no items")

	// ErrTerminalPlacement is returned when the terminal item is missing,
	// duplicated, or not last.
	ErrTerminalPlacement = errors.New("deck must end with exactly one terminal item")
)

// New validates items and returns a Deck holding a private copy of them.
func New(items []Item) (*Deck, error) {
	if len(items) == 0 {
		return nil, ErrEmptyDeck
	}

	seen := make(map[string]bool, len(items))
	cp := make([]Item, len(items))
	for i, it := range items {
		if it.Terminal && i != len(items)-1 {
			return nil, fmt.Errorf("item %d (%q): %w", i, it.ID, ErrTerminalPlacement)
		}
		if it.ID == "" {
			return nil, fmt.Errorf("item %d: missing id", i)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("item %d: duplicate id %q", i, it.ID)
		}
		seen[it.ID] = true
		it.HasVisual = it.Photo != ""
		cp[i] = it
	}
	if !cp[len(cp)-1].Terminal {
		return nil, ErrTerminalPlacement
	}

	return &Deck{items: cp}, nil
}

// Len returns the number of items.
func (d *Deck) Len() int { return len(d.items) }

// At returns the item at position i.
func (d *Deck) At(i int) Item { return d.items[i] }

// Items returns a copy of the deck's items.
func (d *Deck) Items() []Item {
	out := make([]Item, len(d.items))
	copy(out, d.items)
	return out
}

// DefaultItems is the stock four-card deck: three profiles and the question.
func DefaultItems() []Item {
	return []Item{
		{ID: "profile-1", Name: "You 💖", Photo: "profiles/profile1.jpg", Text: "เจอกันในทินเดอร์...หัวใจอยู่ตรงนี้"},
		{ID: "profile-2", Name: "You 🥰", Photo: "profiles/profile2.jpg", Text: "ยิ้มนี้ละ ทำใจละลายเลย"},
		{ID: "profile-3", Name: "Aom 😳", Photo: "profiles/profile3.jpg", Text: "ยังไม่เบื่อใช่ไหม? ฉันไม่เลย"},
		{ID: "question", Name: "💌", Text: "Do you want to be my girlfriend?", Terminal: true},
	}
}
