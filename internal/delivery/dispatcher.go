package delivery

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Sharer is a native share channel. CanShare is the capability predicate;
// Share returns ErrShareCancelled when the user dismisses the sheet.
type Sharer interface {
	Name() string
	CanShare(p Payload) bool
	Share(ctx context.Context, p Payload, req ShareRequest) error
}

// Downloader saves a payload locally and returns where it went.
type Downloader interface {
	Download(ctx context.Context, p Payload) (string, error)
}

// Dispatcher tries native share first and falls back to download.
type Dispatcher struct {
	sharer     Sharer
	downloader Downloader
	logger     *zap.Logger
}

// NewDispatcher builds a dispatcher. sharer may be nil when no share channel
// exists on this platform.
func NewDispatcher(sharer Sharer, downloader Downloader, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{sharer: sharer, downloader: downloader, logger: logger}
}

// Deliver hands p to the user.
//
// A cancelled share sheet ends the delivery without fallback. Any other share
// failure is logged and recovered by downloading. Only a failing download
// produces a Failed outcome.
func (d *Dispatcher) Deliver(ctx context.Context, p Payload, req ShareRequest) Outcome {
	log := d.logger.With(zap.String("file", p.Filename), zap.String("mime", p.MIME), zap.Int("bytes", len(p.Data)))

	var shareErr error
	if d.sharer != nil && d.sharer.CanShare(p) {
		err := d.sharer.Share(ctx, p, req)
		switch {
		case err == nil:
			log.Info("payload shared", zap.String("channel", d.sharer.Name()))
			return Outcome{Kind: Shared, Channel: d.sharer.Name()}
		case errors.Is(err, ErrShareCancelled):
			log.Info("share cancelled by user", zap.String("channel", d.sharer.Name()))
			return Outcome{Kind: CancelledByUser, Channel: d.sharer.Name()}
		default:
			shareErr = &ShareError{Channel: d.sharer.Name(), Err: err}
			log.Warn("share failed, falling back to download", zap.Error(shareErr))
		}
	}

	if d.downloader == nil {
		err := &DownloadError{Filename: p.Filename, Err: errors.New("no downloader configured")}
		return Outcome{Kind: Failed, Err: err, ShareErr: shareErr}
	}

	path, err := d.downloader.Download(ctx, p)
	if err != nil {
		var dlErr *DownloadError
		if !errors.As(err, &dlErr) {
			err = &DownloadError{Filename: p.Filename, Err: err}
		}
		log.Error("download failed", zap.Error(err))
		return Outcome{Kind: Failed, Err: err, ShareErr: shareErr}
	}

	log.Info("payload downloaded", zap.String("path", path))
	return Outcome{Kind: Downloaded, Channel: "download", Path: path, ShareErr: shareErr}
}
