package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/swipematch/internal/capture"
	"github.com/abhisek/swipematch/internal/config"
	"github.com/abhisek/swipematch/internal/deck"
	"github.com/abhisek/swipematch/internal/effects"
	"github.com/abhisek/swipematch/internal/router"
	"github.com/abhisek/swipematch/internal/screen"
	"github.com/abhisek/swipematch/internal/screens/match"
	"github.com/abhisek/swipematch/internal/screens/swipe"
	"github.com/abhisek/swipematch/internal/screens/welcome"
	"github.com/abhisek/swipematch/internal/store"
	"github.com/abhisek/swipematch/internal/ui/layout"
)

// Deps are the collaborators the screens share.
type Deps struct {
	Config    config.Config
	Journal   store.EventRepo
	Renderer  capture.Renderer
	Deliverer match.Deliverer
	Video     match.Fetcher
	QR        match.Fetcher
	Link      func() (string, bool)
	Logger    *zap.Logger

	// SkipIntro starts directly on the deck.
	SkipIntro bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel wires the welcome, swipe and match screens together.
func newAppModel(ctx context.Context, deps Deps) (AppModel, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Journal == nil {
		deps.Journal = store.NopRepo{}
	}
	cfg := deps.Config

	d, err := deck.New(cfg.Deck.Items)
	if err != nil {
		return AppModel{}, fmt.Errorf("build deck: %w", err)
	}

	sessionID := uuid.NewString()
	logger := deps.Logger.With(zap.String("session", sessionID))

	bursts := effects.NewQueue(cfg.Deck.EffectLife, effects.WithExpireHook(func(ids []uint64) {
		logger.Debug("effects expired", zap.Int("count", len(ids)))
	}))

	matchScreen := func(path string) screen.Screen {
		logger.Info("matched", zap.String("path", path))
		return match.New(path, match.Deps{
			Context:      ctx,
			Renderer:     deps.Renderer,
			Deliverer:    deps.Deliverer,
			StoryOptions: cfg.CaptureOptions(),
			Photo:        cfg.Capture.Photo,
			Video:        deps.Video,
			QR:           deps.QR,
			Link:         deps.Link,
			Journal:      deps.Journal,
			SessionID:    sessionID,
			Logger:       logger.Named("match"),
		})
	}

	swipeScreen := func() screen.Screen {
		return swipe.New(swipe.Deps{
			Engine:        deck.NewEngine(d, deck.WithAdvanceDelay(cfg.Deck.AdvanceDelay)),
			Effects:       bursts,
			Journal:       deps.Journal,
			Logger:        logger.Named("swipe"),
			SessionID:     sessionID,
			PixelsPerCell: cfg.Deck.PixelsPerCell,
			MatchScreen:   matchScreen,
		})
	}

	var first screen.Screen
	if deps.SkipIntro {
		first = swipeScreen()
	} else {
		first = welcome.New(swipeScreen)
	}

	return AppModel{
		router: router.New(first),
	}, nil
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	// Motion events drive the drag gesture.
	v.MouseMode = tea.MouseModeCellMotion

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.frame())
	return v
}

// frame renders header, active screen and footer for the current size.
func (m AppModel) frame() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
	}
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}

	header := layout.RenderHeader(title, status, m.width)

	var footerHints []layout.KeyHint
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = kp.KeyHints()
	}
	if footerHints == nil {
		footerHints = []layout.KeyHint{
			{Key: "any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, deps Deps) error {
	model, err := newAppModel(ctx, deps)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
