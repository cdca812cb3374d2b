package match

import (
	"context"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/swipematch/internal/capture"
	"github.com/abhisek/swipematch/internal/delivery"
	"github.com/abhisek/swipematch/internal/effects"
	"github.com/abhisek/swipematch/internal/moment"
	"github.com/abhisek/swipematch/internal/screen"
	"github.com/abhisek/swipematch/internal/store"
	"github.com/abhisek/swipematch/internal/ui/components"
	"github.com/abhisek/swipematch/internal/ui/layout"
	"github.com/abhisek/swipematch/internal/ui/theme"
)

const (
	// HeartsInterval is the gap between waves of floating hearts.
	HeartsInterval = 800 * time.Millisecond
	// HeartsLifetime is how long a floating heart stays on screen.
	HeartsLifetime = 5 * time.Second

	heartsPerWave = 6
	confettiCount = 24
)

// Deliverer hands a payload to the user.
type Deliverer interface {
	Deliver(ctx context.Context, p delivery.Payload, req delivery.ShareRequest) delivery.Outcome
}

// Fetcher produces a ready-made payload, such as the video or the QR image.
type Fetcher func(ctx context.Context) (delivery.Payload, error)

// Deps are the collaborators of the match screen.
type Deps struct {
	// Context bounds every background job; it is cancelled when the program exits.
	Context context.Context

	Renderer     capture.Renderer
	Deliverer    Deliverer
	StoryOptions capture.Options
	// Photo is the couple photo reference embedded in the story.
	Photo string

	// Video and QR are optional; a nil fetcher disables its menu entry.
	Video Fetcher
	QR    Fetcher

	// Link reports the most recent relay share link, if any.
	Link func() (string, bool)

	Hearts    *effects.Queue
	Journal   store.EventRepo
	SessionID string
	Logger    *zap.Logger
	Now       func() time.Time
}

// MatchScreen celebrates the match and offers the story for download.
type MatchScreen struct {
	deps   Deps
	moment moment.Moment
	menu   components.Menu

	spinner  spinner.Model
	busy     bool
	job      int
	cancel   context.CancelFunc
	guidance string
	failed   bool
	link     string
}

var _ screen.Screen = (*MatchScreen)(nil)
var _ screen.KeyHintProvider = (*MatchScreen)(nil)

// New creates a MatchScreen for a navigation path such as
// "/match?t=1700000000000". A missing or malformed time means now.
func New(path string, deps Deps) *MatchScreen {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Journal == nil {
		deps.Journal = store.NopRepo{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Hearts == nil {
		deps.Hearts = effects.NewQueue(HeartsLifetime)
	}
	if deps.StoryOptions == (capture.Options{}) {
		deps.StoryOptions = capture.StoryOptions()
	}

	m := &MatchScreen{
		deps:    deps,
		moment:  moment.FromPath(path, deps.Now()),
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(theme.Banner)),
	}
	m.menu = components.NewMenu(m.menuItems())
	return m
}

func (m *MatchScreen) menuItems() []components.MenuItem {
	job := func(kind int) func() tea.Cmd {
		return func() tea.Cmd { return m.start(kind) }
	}
	return []components.MenuItem{
		{Label: "Save / Share story", Hotkey: "s", Action: job(jobStory)},
		{Label: "Our moment video 🎬", Hotkey: "v", Action: job(jobVideo), Disabled: m.deps.Video == nil},
		{Label: "QR code", Hotkey: "q", Action: job(jobQR), Disabled: m.deps.QR == nil},
	}
}

// Moment returns the match time shown by the screen.
func (m *MatchScreen) Moment() moment.Moment { return m.moment }

func (m *MatchScreen) Init() tea.Cmd {
	m.deps.Hearts.Spawn("🎉", confettiCount)
	m.deps.Hearts.Spawn("💖", heartsPerWave)
	return heartsTick()
}

func heartsTick() tea.Cmd {
	return tea.Tick(HeartsInterval, func(time.Time) tea.Msg { return heartsTickMsg{} })
}

func (m *MatchScreen) Title() string {
	return "It's a Match!"
}

// Status is shown on the right of the header.
func (m *MatchScreen) Status() string {
	return m.moment.Format()
}

func (m *MatchScreen) KeyHints() []layout.KeyHint {
	if m.busy {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Cancel"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m *MatchScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case heartsTickMsg:
		m.deps.Hearts.Spawn("💖", heartsPerWave)
		return m, heartsTick()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case deliveredMsg:
		if msg.Job != m.job {
			return m, nil
		}
		return m, m.finish(msg)

	case jobFailedMsg:
		if msg.Job != m.job {
			return m, nil
		}
		m.stop()
		m.failed = true
		m.guidance = failureGuidance(msg.Err)
		m.deps.Logger.Warn("artifact job failed", zap.Error(msg.Err),
			zap.String("kind", delivery.Classify(msg.Err).String()))
		return m, nil

	case journalErrMsg:
		m.deps.Logger.Warn("journal write failed", zap.Error(msg.Err))
		return m, nil

	case tea.KeyPressMsg:
		if m.busy {
			if msg.String() == "esc" {
				m.stop()
				// Drop whatever the cancelled job still reports.
				m.job++
				m.guidance = ""
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.menu, cmd = m.menu.Update(msg)
		return m, cmd
	}
	return m, nil
}

const (
	jobStory = iota
	jobVideo
	jobQR
)

// start launches a delivery job. Only one job runs at a time.
func (m *MatchScreen) start(kind int) tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	m.failed = false
	m.guidance = ""
	m.job++
	m.menu.SetDisabled(true)

	ctx, cancel := context.WithCancel(m.deps.Context)
	m.cancel = cancel
	job := m.job
	produce := m.producer(kind)
	deliverer := m.deps.Deliverer

	run := func() tea.Msg {
		p, req, err := produce(ctx)
		if err != nil {
			return jobFailedMsg{Job: job, Err: err}
		}
		out := deliverer.Deliver(ctx, p, req)
		return deliveredMsg{Job: job, Outcome: out, Payload: p.Filename}
	}
	return tea.Batch(run, m.spinner.Tick)
}

func (m *MatchScreen) producer(kind int) func(ctx context.Context) (delivery.Payload, delivery.ShareRequest, error) {
	switch kind {
	case jobVideo:
		return func(ctx context.Context) (delivery.Payload, delivery.ShareRequest, error) {
			p, err := m.deps.Video(ctx)
			return p, delivery.ShareRequest{Title: "Our moment 🎬"}, err
		}
	case jobQR:
		return func(ctx context.Context) (delivery.Payload, delivery.ShareRequest, error) {
			p, err := m.deps.QR(ctx)
			return p, delivery.ShareRequest{Title: "Scan me 💌"}, err
		}
	}

	renderer := m.deps.Renderer
	logger := m.deps.Logger
	opts := m.deps.StoryOptions
	story := capture.DefaultStory(m.deps.Photo, m.moment.At)
	story.Width, story.Height = opts.Width, opts.Height
	return func(ctx context.Context) (delivery.Payload, delivery.ShareRequest, error) {
		if renderer == nil {
			return delivery.Payload{}, delivery.ShareRequest{}, &capture.PreconditionError{Reason: "no renderer configured"}
		}
		photo, err := capture.PhotoSource(story.PhotoURL)
		if err != nil {
			// A missing photo leaves an empty frame; the story is still worth saving.
			logger.Warn("story photo unavailable", zap.Error(err))
		}
		story.PhotoURL = photo
		target, err := capture.StoryDocument(story)
		if err != nil {
			return delivery.Payload{}, delivery.ShareRequest{}, err
		}
		art, err := renderer.Capture(ctx, target, opts)
		if err != nil {
			return delivery.Payload{}, delivery.ShareRequest{}, err
		}
		data, err := art.Take()
		if err != nil {
			return delivery.Payload{}, delivery.ShareRequest{}, err
		}
		return delivery.Payload{Data: data, MIME: delivery.MIMEPNG, Filename: delivery.StoryFilename}, delivery.StoryShare, nil
	}
}

func (m *MatchScreen) finish(msg deliveredMsg) tea.Cmd {
	m.stop()
	out := msg.Outcome
	m.failed = out.Kind == delivery.Failed
	m.guidance = delivery.Guidance(out)
	if out.Kind == delivery.Shared && m.deps.Link != nil {
		if link, ok := m.deps.Link(); ok {
			m.link = link
		}
	}
	m.deps.Logger.Info("delivered",
		zap.String("file", msg.Payload),
		zap.Stringer("outcome", out.Kind),
		zap.String("channel", out.Channel))

	data := store.DeliveryEventData{
		SessionID: m.deps.SessionID,
		Filename:  msg.Payload,
		Outcome:   out.Kind.String(),
		Detail:    out.String(),
	}
	journal := m.deps.Journal
	return func() tea.Msg {
		if err := journal.AppendDelivery(context.Background(), data); err != nil {
			return journalErrMsg{Err: err}
		}
		return nil
	}
}

func (m *MatchScreen) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.busy = false
	m.menu = components.NewMenu(m.menuItems())
}

func failureGuidance(err error) string {
	switch delivery.Classify(err) {
	case delivery.PreconditionViolation:
		return "The story is not ready yet. Try again in a moment."
	case delivery.UserCancellation:
		return ""
	case delivery.NetworkFailure:
		return fmt.Sprintf("Could not fetch the file: %v", err)
	}
	return fmt.Sprintf("Could not create the image: %v", err)
}
