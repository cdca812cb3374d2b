package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"time"

	"go.uber.org/zap"
)

// Backend turns a mounted subtree into PNG bytes. Implementations report a
// selector that matches nothing with ErrNotMounted.
type Backend interface {
	Snapshot(ctx context.Context, target *Target, opts Options) ([]byte, error)
}

// Renderer is what callers depend on.
type Renderer interface {
	Capture(ctx context.Context, target *Target, opts Options) (*Artifact, error)
}

// Pipeline validates preconditions, runs a Backend and checks its output.
type Pipeline struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
}

var _ Renderer = (*Pipeline)(nil)

// NewPipeline wraps backend. A nil logger disables logging.
func NewPipeline(backend Backend, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{backend: backend, logger: logger, now: time.Now}
}

// Capture snapshots target at opts. The source document is never modified.
func (p *Pipeline) Capture(ctx context.Context, target *Target, opts Options) (*Artifact, error) {
	if err := p.checkTarget(target); err != nil {
		p.logger.Error("capture refused", zap.Error(err))
		return nil, err
	}
	if opts.Width <= 0 || opts.Height <= 0 || opts.Scale <= 0 {
		return nil, fmt.Errorf("invalid capture options %dx%d@%g", opts.Width, opts.Height, opts.Scale)
	}

	start := p.now()
	data, err := p.backend.Snapshot(ctx, target, opts)
	if err != nil {
		if errors.Is(err, ErrNotMounted) {
			perr := &PreconditionError{Reason: fmt.Sprintf("selector %q is not mounted", target.Selector)}
			p.logger.Error("capture refused", zap.Error(perr))
			return nil, perr
		}
		return nil, &Error{Op: "snapshot", Err: err}
	}

	if err := checkBitmap(data, opts); err != nil {
		return nil, &Error{Op: "verify", Err: err}
	}

	p.logger.Info("artifact captured",
		zap.Int("width", opts.Width),
		zap.Int("height", opts.Height),
		zap.Float64("scale", opts.Scale),
		zap.Int("bytes", len(data)),
		zap.Duration("took", p.now().Sub(start)),
	)

	return &Artifact{
		Width:      opts.Width,
		Height:     opts.Height,
		Scale:      opts.Scale,
		Origin:     target.Origin,
		CapturedAt: p.now(),
		data:       data,
	}, nil
}

func (p *Pipeline) checkTarget(target *Target) error {
	switch {
	case target == nil:
		return &PreconditionError{Reason: "no target"}
	case len(target.Document) == 0:
		return &PreconditionError{Reason: "target document is empty"}
	case target.Selector == "":
		return &PreconditionError{Reason: "target selector is empty"}
	}
	return nil
}

// checkBitmap decodes the PNG header and compares it with the expected pixel
// size, allowing one pixel of rounding.
func checkBitmap(data []byte, opts Options) error {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode bitmap: %w", err)
	}
	if format != "png" {
		return fmt.Errorf("unexpected bitmap format %q", format)
	}
	wantW, wantH := opts.PixelSize()
	if abs(cfg.Width-wantW) > 1 || abs(cfg.Height-wantH) > 1 {
		return fmt.Errorf("bitmap is %dx%d, want %dx%d", cfg.Width, cfg.Height, wantW, wantH)
	}
	return nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
