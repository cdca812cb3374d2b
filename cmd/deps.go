package cmd

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/swipematch/internal/capture"
	"github.com/abhisek/swipematch/internal/delivery"
	"github.com/abhisek/swipematch/internal/qr"
	"github.com/abhisek/swipematch/internal/relay"
)

// fetchTimeout bounds the video and QR downloads.
const fetchTimeout = 2 * time.Minute

// channels are the delivery collaborators built from the config.
type channels struct {
	dispatcher *delivery.Dispatcher
	relay      *relay.Sharer
	client     *http.Client
}

// newChannels picks the share channel: the relay when configured, otherwise
// the share command, otherwise download only.
func newChannels() *channels {
	ch := &channels{client: &http.Client{Timeout: fetchTimeout}}

	var sharer delivery.Sharer
	switch {
	case cfg.Delivery.RelayURL != "":
		ch.relay = relay.NewSharer(cfg.Delivery.RelayURL)
		sharer = ch.relay
	case len(cfg.Delivery.ShareCommand) > 0:
		sharer = delivery.NewCommandSharer(cfg.Delivery.ShareCommand, cfg.Delivery.ShareAccept)
	}

	ch.dispatcher = delivery.NewDispatcher(sharer,
		delivery.DirDownloader{Dir: cfg.Delivery.DownloadDir},
		logger.Named("delivery"))
	return ch
}

// link reports the last relay share link.
func (ch *channels) link() (string, bool) {
	if ch.relay == nil {
		return "", false
	}
	resp, ok := ch.relay.Last()
	return resp.URL, ok
}

// video fetches the configured video, or is nil when none is configured.
func (ch *channels) video() func(ctx context.Context) (delivery.Payload, error) {
	if cfg.Delivery.VideoURL == "" {
		return nil
	}
	return func(ctx context.Context) (delivery.Payload, error) {
		return delivery.FetchBlob(ctx, ch.client, cfg.Delivery.VideoURL, delivery.MIMEMP4, delivery.VideoFilename)
	}
}

// qrData is what the QR code encodes: the explicit qr_data, else the video.
func qrData() string {
	if cfg.Delivery.QRData != "" {
		return cfg.Delivery.QRData
	}
	return cfg.Delivery.VideoURL
}

// qrFetcher returns nil when there is nothing to encode.
func (ch *channels) qrFetcher() func(ctx context.Context) (delivery.Payload, error) {
	data := qrData()
	if data == "" {
		return nil
	}
	return func(ctx context.Context) (delivery.Payload, error) {
		return qr.Fetch(ctx, ch.client, cfg.Delivery.QREndpoint, capture.QRSize, data)
	}
}

// newRenderer starts the headless browser capture pipeline. The returned
// closer shuts the browser down.
func newRenderer() (*capture.Pipeline, func()) {
	backend := capture.NewRodBackend(cfg.Capture.Rod, logger.Named("rod"))
	retrying := capture.WithRetry(backend, cfg.Capture.Retry, logger.Named("capture"))
	return capture.NewPipeline(retrying, logger.Named("capture")), func() {
		if err := backend.Close(); err != nil {
			logger.Warn("close browser", zap.Error(err))
		}
	}
}
