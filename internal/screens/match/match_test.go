package match

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/swipematch/internal/capture"
	"github.com/abhisek/swipematch/internal/delivery"
	"github.com/abhisek/swipematch/internal/effects"
	"github.com/abhisek/swipematch/internal/store"
)

var testOpts = capture.Options{Width: 10, Height: 20, Scale: 2}

type pngBackend struct {
	err   error
	calls int
}

func (b *pngBackend) Snapshot(_ context.Context, target *capture.Target, opts capture.Options) ([]byte, error) {
	b.calls++
	if b.err != nil {
		return nil, b.err
	}
	w, h := opts.PixelSize()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type fakeDeliverer struct {
	payloads []delivery.Payload
	requests []delivery.ShareRequest
	outcome  delivery.Outcome
}

func (f *fakeDeliverer) Deliver(_ context.Context, p delivery.Payload, req delivery.ShareRequest) delivery.Outcome {
	f.payloads = append(f.payloads, p)
	f.requests = append(f.requests, req)
	return f.outcome
}

type deliveryJournal struct {
	store.NopRepo
	deliveries []store.DeliveryEventData
}

func (j *deliveryJournal) AppendDelivery(_ context.Context, d store.DeliveryEventData) error {
	j.deliveries = append(j.deliveries, d)
	return nil
}

type noopTimer struct{}

func (noopTimer) Stop() bool { return true }

func quietHearts() *effects.Queue {
	return effects.NewQueue(HeartsLifetime, effects.WithAfterFunc(func(time.Duration, func()) effects.Timer {
		return noopTimer{}
	}))
}

func newTestMatch(t *testing.T, backend *pngBackend, d *fakeDeliverer) (*MatchScreen, *deliveryJournal) {
	t.Helper()
	j := &deliveryJournal{}
	m := New("/match?t=1739563200000", Deps{
		Renderer:     capture.NewPipeline(backend, nil),
		Deliverer:    d,
		StoryOptions: testOpts,
		Hearts:       quietHearts(),
		Journal:      j,
		SessionID:    "s1",
	})
	return m, j
}

// run executes cmd and any batched commands. Tick commands must not be in flight.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func only[T tea.Msg](t *testing.T, msgs []tea.Msg) T {
	t.Helper()
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v
		}
	}
	var zero T
	t.Fatalf("no %T in %v", zero, msgs)
	return zero
}

var keyS = tea.KeyPressMsg{Code: 's', Text: "s"}

func TestMomentFromPath(t *testing.T) {
	m, _ := newTestMatch(t, &pngBackend{}, &fakeDeliverer{})
	assert.Equal(t, int64(1739563200000), m.Moment().At.UnixMilli())

	now := time.UnixMilli(5000)
	fallback := New("/match", Deps{Hearts: quietHearts(), Now: func() time.Time { return now }})
	assert.True(t, fallback.Moment().At.Equal(now))

	garbage := New("/match?t=soon", Deps{Hearts: quietHearts(), Now: func() time.Time { return now }})
	assert.True(t, garbage.Moment().At.Equal(now))
}

func TestInitSpawnsCelebration(t *testing.T) {
	m, _ := newTestMatch(t, &pngBackend{}, &fakeDeliverer{})
	require.NotNil(t, m.Init())
	assert.Equal(t, confettiCount+heartsPerWave, m.deps.Hearts.Len())

	_, cmd := m.Update(heartsTickMsg{})
	assert.NotNil(t, cmd, "hearts keep coming")
	assert.Equal(t, confettiCount+2*heartsPerWave, m.deps.Hearts.Len())
}

func TestSaveStoryCapturesAndDelivers(t *testing.T) {
	be := &pngBackend{}
	d := &fakeDeliverer{outcome: delivery.Outcome{Kind: delivery.Downloaded, Channel: "download", Path: "/tmp/dl/match-story.png"}}
	m, j := newTestMatch(t, be, d)

	_, cmd := m.Update(keyS)
	require.NotNil(t, cmd)
	assert.True(t, m.busy)

	// A second press while busy is ignored.
	_, again := m.Update(keyS)
	assert.Nil(t, again)

	msgs := run(cmd)
	delivered := only[deliveredMsg](t, msgs)
	only[spinner.TickMsg](t, msgs)

	require.Len(t, d.payloads, 1)
	assert.Equal(t, delivery.StoryFilename, d.payloads[0].Filename)
	assert.Equal(t, delivery.MIMEPNG, d.payloads[0].MIME)
	assert.Equal(t, delivery.StoryShare, d.requests[0])
	assert.Equal(t, 1, be.calls)

	_, cmd = m.Update(delivered)
	assert.False(t, m.busy)
	assert.Contains(t, m.guidance, "/tmp/dl/match-story.png")
	assert.Contains(t, m.View(80, 30), "Saved to")

	run(cmd)
	require.Len(t, j.deliveries, 1)
	assert.Equal(t, "downloaded", j.deliveries[0].Outcome)
	assert.Equal(t, "s1", j.deliveries[0].SessionID)
}

func TestCancelledShareIsSilent(t *testing.T) {
	d := &fakeDeliverer{outcome: delivery.Outcome{Kind: delivery.CancelledByUser, Channel: "share"}}
	m, _ := newTestMatch(t, &pngBackend{}, d)

	_, cmd := m.Update(keyS)
	m.Update(only[deliveredMsg](t, run(cmd)))
	assert.Empty(t, m.guidance)
	assert.False(t, m.failed)
}

func TestUnmountedStoryIsPrecondition(t *testing.T) {
	d := &fakeDeliverer{}
	m, _ := newTestMatch(t, &pngBackend{err: capture.ErrNotMounted}, d)

	_, cmd := m.Update(keyS)
	failed := only[jobFailedMsg](t, run(cmd))
	assert.ErrorIs(t, failed.Err, capture.ErrPrecondition)

	m.Update(failed)
	assert.True(t, m.failed)
	assert.Contains(t, m.guidance, "not ready")
	assert.Empty(t, d.payloads, "nothing is delivered without an artifact")
}

func TestEscCancelsRunningJob(t *testing.T) {
	d := &fakeDeliverer{outcome: delivery.Outcome{Kind: delivery.Downloaded, Path: "x"}}
	m, _ := newTestMatch(t, &pngBackend{}, d)

	_, cmd := m.Update(keyS)
	require.True(t, m.busy)
	m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.False(t, m.busy)

	// The cancelled job's result arrives late and is dropped.
	m.Update(only[deliveredMsg](t, run(cmd)))
	assert.Empty(t, m.guidance)
}

func TestOptionalFetchers(t *testing.T) {
	m, _ := newTestMatch(t, &pngBackend{}, &fakeDeliverer{})
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'v', Text: "v"})
	assert.Nil(t, cmd, "video is disabled without a fetcher")

	d := &fakeDeliverer{outcome: delivery.Outcome{Kind: delivery.Shared, Channel: "relay"}}
	withQR := New("/match?t=1", Deps{
		Deliverer: d,
		Hearts:    quietHearts(),
		QR: func(context.Context) (delivery.Payload, error) {
			return delivery.Payload{Data: []byte("png"), MIME: delivery.MIMEPNG, Filename: delivery.QRFilename}, nil
		},
		Link: func() (string, bool) { return "http://relay.local/s/abc", true },
	})
	_, cmd = withQR.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	withQR.Update(only[deliveredMsg](t, run(cmd)))
	require.Len(t, d.payloads, 1)
	assert.Equal(t, delivery.QRFilename, d.payloads[0].Filename)
	assert.Equal(t, "http://relay.local/s/abc", withQR.link)
	assert.Contains(t, withQR.guidance, "Shared")
}
