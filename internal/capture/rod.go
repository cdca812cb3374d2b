package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// RodConfig configures the headless Chromium backend.
type RodConfig struct {
	ControlURL   string        `yaml:"control_url"`
	Bin          string        `yaml:"bin"`
	ImageTimeout time.Duration `yaml:"image_timeout"`
}

// ImageTimeoutOrDefault bounds how long to wait for embedded images.
func (c RodConfig) ImageTimeoutOrDefault() time.Duration {
	if c.ImageTimeout <= 0 {
		return 5 * time.Second
	}
	return c.ImageTimeout
}

// RodBackend renders targets in a headless Chromium driven over CDP.
type RodBackend struct {
	cfg    RodConfig
	logger *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
}

var _ Backend = (*RodBackend)(nil)

// NewRodBackend creates a backend. The browser starts lazily on first use.
func NewRodBackend(cfg RodConfig, logger *zap.Logger) *RodBackend {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RodBackend{cfg: cfg, logger: logger}
}

func (b *RodBackend) ensureBrowser() (*rod.Browser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser != nil {
		return b.browser, nil
	}

	controlURL := b.cfg.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if b.cfg.Bin != "" {
			l = l.Bin(b.cfg.Bin)
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chromium: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}
	b.logger.Debug("chromium connected", zap.String("control_url", controlURL))
	b.browser = browser
	return browser, nil
}

// Snapshot loads the target document into a fresh page sized to opts and
// captures the clip of the selected element.
func (b *RodBackend) Snapshot(ctx context.Context, target *Target, opts Options) ([]byte, error) {
	browser, err := b.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		// The browser is likely gone; relaunch on the next attempt.
		b.drop(browser)
		return nil, fmt.Errorf("create page: %w", err)
	}
	defer page.Close()
	p := page.Context(ctx)

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: opts.Scale,
		Mobile:            true,
	}).Call(p); err != nil {
		return nil, fmt.Errorf("set device metrics: %w", err)
	}

	if err := p.SetDocumentContent(string(target.Document)); err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}

	// Broken or slow cross-origin images degrade the capture instead of
	// failing it.
	tp := p.Timeout(b.cfg.ImageTimeoutOrDefault())
	_, err = tp.Eval(waitImagesJS)
	tp.CancelTimeout()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		b.logger.Warn("images not settled, capturing anyway", zap.Error(err))
	}

	has, el, err := p.Has(target.Selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", target.Selector, err)
	}
	if !has {
		return nil, ErrNotMounted
	}

	shape, err := el.Shape()
	if err != nil {
		return nil, fmt.Errorf("measure %q: %w", target.Selector, err)
	}
	box := shape.Box()
	if box == nil || box.Width == 0 || box.Height == 0 {
		return nil, errors.Join(ErrNotMounted, fmt.Errorf("%q has no layout box", target.Selector))
	}

	res, err := proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			X:      box.X,
			Y:      box.Y,
			Width:  box.Width,
			Height: box.Height,
			Scale:  1,
		},
		FromSurface:           true,
		CaptureBeyondViewport: true,
	}.Call(p)
	if err != nil {
		return nil, fmt.Errorf("capture screenshot: %w", err)
	}
	return res.Data, nil
}

func (b *RodBackend) drop(browser *rod.Browser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == browser {
		_ = browser.Close()
		b.browser = nil
	}
}

// Close shuts the browser down if it was started.
func (b *RodBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}

const waitImagesJS = `() => Promise.all(Array.from(document.images).map(img =>
	img.complete ? null : new Promise(resolve => { img.onload = img.onerror = resolve; })))`
