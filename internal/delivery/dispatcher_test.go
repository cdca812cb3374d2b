package delivery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSharer struct {
	capable bool
	err     error
	calls   int
	got     ShareRequest
}

func (f *fakeSharer) Name() string            { return "fake" }
func (f *fakeSharer) CanShare(_ Payload) bool { return f.capable }
func (f *fakeSharer) Share(_ context.Context, _ Payload, req ShareRequest) error {
	f.calls++
	f.got = req
	return f.err
}

type fakeDownloader struct {
	calls int
	err   error
}

func (f *fakeDownloader) Download(_ context.Context, p Payload) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "/tmp/" + p.Filename, nil
}

var storyPayload = Payload{Data: []byte("png"), MIME: MIMEPNG, Filename: StoryFilename}

func TestDeliverIncapableAlwaysDownloads(t *testing.T) {
	sh := &fakeSharer{capable: false}
	dl := &fakeDownloader{}

	out := NewDispatcher(sh, dl, nil).Deliver(context.Background(), storyPayload, StoryShare)

	assert.Equal(t, Downloaded, out.Kind)
	assert.Equal(t, "/tmp/match-story.png", out.Path)
	assert.Zero(t, sh.calls, "share must not be invoked when incapable")
	assert.Equal(t, 1, dl.calls)
}

func TestDeliverNoSharerDownloads(t *testing.T) {
	dl := &fakeDownloader{}
	out := NewDispatcher(nil, dl, nil).Deliver(context.Background(), storyPayload, StoryShare)
	assert.Equal(t, Downloaded, out.Kind)
}

func TestDeliverShared(t *testing.T) {
	sh := &fakeSharer{capable: true}
	dl := &fakeDownloader{}

	out := NewDispatcher(sh, dl, nil).Deliver(context.Background(), storyPayload, StoryShare)

	assert.Equal(t, Shared, out.Kind)
	assert.Equal(t, "fake", out.Channel)
	assert.Equal(t, StoryShare, sh.got)
	assert.Zero(t, dl.calls)
}

func TestDeliverCancelledDoesNotDownload(t *testing.T) {
	sh := &fakeSharer{capable: true, err: ErrShareCancelled}
	dl := &fakeDownloader{}

	out := NewDispatcher(sh, dl, nil).Deliver(context.Background(), storyPayload, StoryShare)

	assert.Equal(t, CancelledByUser, out.Kind)
	assert.NoError(t, out.Err)
	assert.Zero(t, dl.calls, "cancellation must not fall back to download")
	assert.Empty(t, Guidance(out), "cancellation is silent")
}

func TestDeliverWrappedCancellation(t *testing.T) {
	sh := &fakeSharer{capable: true, err: errors.Join(errors.New("sheet closed"), ErrShareCancelled)}
	dl := &fakeDownloader{}

	out := NewDispatcher(sh, dl, nil).Deliver(context.Background(), storyPayload, StoryShare)
	assert.Equal(t, CancelledByUser, out.Kind)
	assert.Zero(t, dl.calls)
}

// Scenario: share is available but throws; the user still gets the file.
func TestDeliverShareFailureFallsBack(t *testing.T) {
	sh := &fakeSharer{capable: true, err: errors.New("share target crashed")}
	dl := &fakeDownloader{}

	out := NewDispatcher(sh, dl, nil).Deliver(context.Background(), storyPayload, StoryShare)

	assert.Equal(t, Downloaded, out.Kind)
	assert.NoError(t, out.Err)
	require.Error(t, out.ShareErr)
	assert.Equal(t, TransientShareFailure, Classify(out.ShareErr))
	assert.Equal(t, 1, sh.calls)
	assert.Equal(t, 1, dl.calls)
}

func TestDeliverDownloadFailure(t *testing.T) {
	dl := &fakeDownloader{err: errors.New("disk full")}

	out := NewDispatcher(nil, dl, nil).Deliver(context.Background(), storyPayload, StoryShare)

	assert.Equal(t, Failed, out.Kind)
	require.Error(t, out.Err)
	assert.Equal(t, DeliveryFailure, Classify(out.Err))
	assert.Contains(t, Guidance(out), "disk full")
}

func TestDeliverWithoutDownloader(t *testing.T) {
	out := NewDispatcher(nil, nil, nil).Deliver(context.Background(), storyPayload, StoryShare)
	assert.Equal(t, Failed, out.Kind)
}

func TestDeliverIsPayloadAgnostic(t *testing.T) {
	sh := &fakeSharer{capable: true}
	video := Payload{Data: []byte("mp4"), MIME: MIMEMP4, Filename: VideoFilename}

	out := NewDispatcher(sh, &fakeDownloader{}, nil).Deliver(context.Background(), video, ShareRequest{Title: "Our moment"})
	assert.Equal(t, Shared, out.Kind)
}
