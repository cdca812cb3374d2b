package swipe

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/swipematch/internal/deck"
	"github.com/abhisek/swipematch/internal/effects"
	"github.com/abhisek/swipematch/internal/moment"
	"github.com/abhisek/swipematch/internal/router"
	"github.com/abhisek/swipematch/internal/screen"
	"github.com/abhisek/swipematch/internal/store"
	"github.com/abhisek/swipematch/internal/ui/components"
	"github.com/abhisek/swipematch/internal/ui/layout"
)

// BannerDuration is how long the SUPER LIKE banner stays up.
const BannerDuration = 1500 * time.Millisecond

// Deps are the collaborators of the swipe screen.
type Deps struct {
	Engine  *deck.Engine
	Effects *effects.Queue
	Journal store.EventRepo
	Logger  *zap.Logger

	SessionID string

	// PixelsPerCell converts a mouse drag measured in terminal cells into
	// the pixel offset the gesture classifier expects.
	PixelsPerCell float64

	// MatchScreen builds the match view for a navigation path such as
	// "/match?t=1700000000000".
	MatchScreen func(path string) screen.Screen
}

// SwipeScreen shows the deck one card at a time.
type SwipeScreen struct {
	deps Deps

	dragging bool
	dragFrom int
	offset   float64

	rebuff    bool
	banner    bool
	bannerSeq uint64
	matched   bool
}

var _ screen.Screen = (*SwipeScreen)(nil)
var _ screen.KeyHintProvider = (*SwipeScreen)(nil)

// New creates a SwipeScreen.
func New(deps Deps) *SwipeScreen {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Journal == nil {
		deps.Journal = store.NopRepo{}
	}
	if deps.PixelsPerCell <= 0 {
		deps.PixelsPerCell = 8
	}
	return &SwipeScreen{deps: deps}
}

func (s *SwipeScreen) Init() tea.Cmd {
	return nil
}

func (s *SwipeScreen) Title() string {
	return "Swipe"
}

// Status is shown on the right of the header.
func (s *SwipeScreen) Status() string {
	return components.DeckProgress(s.deps.Engine.Cursor(), s.deps.Engine.Len(), 0).Label
}

func (s *SwipeScreen) KeyHints() []layout.KeyHint {
	if s.rebuff {
		return []layout.KeyHint{{Key: "any key", Description: "โอเคก็ได้~ 💕"}}
	}
	hints := []layout.KeyHint{
		{Key: "←/→", Description: "Swipe"},
		{Key: "drag", Description: "Swipe with mouse"},
	}
	if !s.deps.Engine.Current().Terminal {
		hints = append(hints,
			layout.KeyHint{Key: "x", Description: "Nope"},
			layout.KeyHint{Key: "s", Description: "Super like"},
			layout.KeyHint{Key: "l", Description: "Like"},
		)
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
}

func (s *SwipeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case settleMsg:
		if ev, ok := s.deps.Engine.Settle(msg.Seq); ok {
			s.deps.Logger.Debug("advanced", zap.Int("from", ev.From), zap.Int("to", ev.To))
		}
		return s, nil

	case bannerDoneMsg:
		if msg.Seq == s.bannerSeq {
			s.banner = false
		}
		return s, nil

	case effectsExpiredMsg:
		return s, nil

	case journalErrMsg:
		s.deps.Logger.Warn("journal write failed", zap.Error(msg.Err))
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)

	case tea.MouseClickMsg:
		if s.rebuff {
			s.rebuff = false
			return s, nil
		}
		if msg.Button == tea.MouseLeft {
			s.dragging = true
			s.dragFrom = msg.X
			s.offset = 0
		}
		return s, nil

	case tea.MouseMotionMsg:
		if s.dragging {
			s.offset = float64(msg.X-s.dragFrom) * s.deps.PixelsPerCell
		}
		return s, nil

	case tea.MouseReleaseMsg:
		if !s.dragging {
			return s, nil
		}
		s.dragging = false
		s.offset = float64(msg.X-s.dragFrom) * s.deps.PixelsPerCell
		offset := s.offset
		s.offset = 0
		return s, s.gesture(offset, deck.NoControl)
	}

	return s, nil
}

func (s *SwipeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	// The rebuff notice blocks the deck until acknowledged.
	if s.rebuff {
		s.rebuff = false
		return s, nil
	}

	switch msg.String() {
	case "left", "h":
		return s, s.gesture(-(deck.SwipeThreshold + 1), deck.NoControl)
	case "right":
		return s, s.gesture(deck.SwipeThreshold+1, deck.NoControl)
	}

	// The explicit buttons are not offered on the terminal card.
	if s.deps.Engine.Current().Terminal {
		return s, nil
	}
	switch msg.String() {
	case "x":
		return s, s.gesture(0, deck.RejectControl)
	case "s", "up":
		return s, s.gesture(0, deck.EmphasizeControl)
	case "l", "enter":
		return s, s.gesture(0, deck.AcceptControl)
	}
	return s, nil
}

// gesture classifies the input and applies the resulting decision.
func (s *SwipeScreen) gesture(offset float64, control deck.Control) tea.Cmd {
	if s.matched {
		return nil
	}
	d, ok := deck.Classify(offset, control)
	if !ok {
		return nil
	}

	item := s.deps.Engine.Current()
	cursor := s.deps.Engine.Cursor()
	res, err := s.deps.Engine.Advance(d)
	if err != nil {
		s.deps.Logger.Debug("decision ignored", zap.Error(err))
		return nil
	}

	var cmds []tea.Cmd
	data := store.DecisionEventData{
		SessionID: s.deps.SessionID,
		Decision:  d.String(),
		ItemID:    item.ID,
		Cursor:    cursor,
	}

	for _, ev := range res.Events {
		switch ev := ev.(type) {
		case deck.EffectEvent:
			cmds = append(cmds, s.spawn(ev.Effect))
		case deck.RebuffedEvent:
			s.rebuff = true
			cmds = append(cmds, s.record(func(ctx context.Context) error {
				return s.deps.Journal.AppendRebuff(ctx, data)
			}))
		case deck.MatchedEvent:
			s.matched = true
			cmds = append(cmds, s.record(func(ctx context.Context) error {
				return s.deps.Journal.AppendMatch(ctx, store.MatchEventData{SessionID: s.deps.SessionID, At: ev.At})
			}), s.navigate(moment.MatchPath(ev.At)))
		case deck.AdvancedEvent:
			s.deps.Logger.Debug("advanced", zap.Int("from", ev.From), zap.Int("to", ev.To))
		}
	}

	if !item.Terminal {
		cmds = append(cmds, s.record(func(ctx context.Context) error {
			return s.deps.Journal.AppendDecision(ctx, data)
		}))
	}

	if d == deck.Emphasize && item.HasVisual {
		s.banner = true
		s.bannerSeq++
		seq := s.bannerSeq
		cmds = append(cmds, tea.Tick(BannerDuration, func(time.Time) tea.Msg {
			return bannerDoneMsg{Seq: seq}
		}))
	}

	if t := res.Pending; t != nil {
		seq := t.Seq
		cmds = append(cmds, tea.Tick(t.Delay, func(time.Time) tea.Msg {
			return settleMsg{Seq: seq}
		}))
	}

	return tea.Batch(cmds...)
}

// spawn starts an effect burst. Effects are best effort and never block
// the transition.
func (s *SwipeScreen) spawn(e deck.Effect) tea.Cmd {
	if s.deps.Effects == nil {
		return nil
	}
	s.deps.Effects.Spawn(e.Symbol, e.Count)
	return tea.Tick(s.deps.Effects.Lifetime(), func(time.Time) tea.Msg {
		return effectsExpiredMsg{}
	})
}

func (s *SwipeScreen) record(write func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		if err := write(context.Background()); err != nil {
			return journalErrMsg{Err: err}
		}
		return nil
	}
}

func (s *SwipeScreen) navigate(path string) tea.Cmd {
	if s.deps.MatchScreen == nil {
		return nil
	}
	next := s.deps.MatchScreen(path)
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}
