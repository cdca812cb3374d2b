package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-rod/rod/lib/launcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rodBackend(t *testing.T, imageTimeout time.Duration) *RodBackend {
	t.Helper()
	bin, ok := launcher.LookPath()
	if !ok {
		t.Skip("no chromium on PATH")
	}
	b := NewRodBackend(RodConfig{Bin: bin, ImageTimeout: imageTimeout}, nil)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func imageDoc(src string) *Target {
	doc := fmt.Sprintf(`<html><body style="margin:0">
<div id="story" style="width:10px;height:20px"><img src="%s" style="display:block;width:10px;height:20px" alt=""></div>
</body></html>`, src)
	return &Target{Document: []byte(doc), Selector: StorySelector}
}

func TestRodLoadsCrossOriginImageWithoutCORSHeaders(t *testing.T) {
	b := rodBackend(t, 2*time.Second)

	var hits atomic.Int32
	img := pngOf(t, 4, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(img)
	}))
	defer srv.Close()

	target, err := StoryDocument(DefaultStory(srv.URL+"/couple.png", time.Now()))
	require.NoError(t, err)

	data, err := b.Snapshot(context.Background(), target, StoryOptions())
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Positive(t, hits.Load(), "the photo must be requested")
}

func TestRodSlowImageDegradesWithinTimeout(t *testing.T) {
	b := rodBackend(t, 200*time.Millisecond)

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	data, err := b.Snapshot(context.Background(), imageDoc(srv.URL+"/slow.png"), Options{Width: 10, Height: 20, Scale: 1})
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 10*time.Second)

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.InDelta(t, 10, cfg.Width, 1)

	// The image wait must not leave a deadline on later snapshots.
	_, err = b.Snapshot(context.Background(), validTarget(), Options{Width: 10, Height: 20, Scale: 1})
	assert.ErrorIs(t, err, ErrNotMounted)
}
