// Package capture snapshots an off-screen visual composition into a PNG at a
// fixed target resolution, independent of the viewing device.
package capture

import (
	"errors"
	"sync"
	"time"
)

// Story and QR presets.
const (
	StoryWidth  = 1080
	StoryHeight = 1920
	StoryScale  = 3.0

	QRSize = 1000
)

// ErrConsumed is returned when an artifact's bitmap is taken twice.
var ErrConsumed = errors.New("artifact already consumed")

// Options sets the target dimensions. Scale raises pixel density without
// changing the target dimensions.
type Options struct {
	Width  int
	Height int
	Scale  float64
}

// StoryOptions is the vertical story preset.
func StoryOptions() Options {
	return Options{Width: StoryWidth, Height: StoryHeight, Scale: StoryScale}
}

// QROptions is the square QR card preset.
func QROptions() Options {
	return Options{Width: QRSize, Height: QRSize, Scale: 1}
}

// PixelSize returns the expected bitmap dimensions.
func (o Options) PixelSize() (int, int) {
	return int(float64(o.Width)*o.Scale + 0.5), int(float64(o.Height)*o.Scale + 0.5)
}

// Target is the handle of the subtree to capture: a document holding the
// composition and the selector of the root element inside it.
type Target struct {
	Document []byte
	Selector string
	Origin   time.Time
}

// Artifact is a captured PNG. Its bitmap can be taken exactly once.
type Artifact struct {
	Width      int
	Height     int
	Scale      float64
	Origin     time.Time
	CapturedAt time.Time

	mu   sync.Mutex
	data []byte
}

// Size returns the bitmap size in bytes, or zero once taken.
func (a *Artifact) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.data)
}

// Take hands the PNG bytes to the caller and discards them from the artifact.
func (a *Artifact) Take() ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.data == nil {
		return nil, ErrConsumed
	}
	data := a.data
	a.data = nil
	return data, nil
}
