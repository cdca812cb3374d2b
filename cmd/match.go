package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/swipematch/internal/capture"
	"github.com/abhisek/swipematch/internal/delivery"
	"github.com/abhisek/swipematch/internal/moment"
	"github.com/abhisek/swipematch/internal/store"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Render the match story image without the deck",
	Long: `Render the match story for a given moment and deliver it through the
configured share channel, falling back to the download directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		ms, _ := cmd.Flags().GetInt64("t")

		path := "/match"
		if ms > 0 {
			path = moment.MatchPath(time.UnixMilli(ms))
		}
		mo := moment.FromPath(path, time.Now())

		photo, err := capture.PhotoSource(cfg.Capture.Photo)
		if err != nil {
			logger.Warn("story photo unavailable", zap.Error(err))
		}
		story := capture.DefaultStory(photo, mo.At)
		opts := cfg.CaptureOptions()
		story.Width, story.Height = opts.Width, opts.Height

		target, err := capture.StoryDocument(story)
		if err != nil {
			return err
		}

		renderer, closeRenderer := newRenderer()
		defer closeRenderer()

		art, err := renderer.Capture(ctx, target, opts)
		if err != nil {
			return fmt.Errorf("capture story (%s): %w", delivery.Classify(err), err)
		}
		data, err := art.Take()
		if err != nil {
			return err
		}

		p := delivery.Payload{Data: data, MIME: delivery.MIMEPNG, Filename: delivery.StoryFilename}
		return deliver(cmd, p, delivery.StoryShare)
	},
}

func init() {
	matchCmd.Flags().Int64("t", 0, "Match time in unix milliseconds (default now)")
}

// deliver hands p to the user, prints the guidance and journals the outcome.
func deliver(cmd *cobra.Command, p delivery.Payload, req delivery.ShareRequest) error {
	ch := newChannels()
	out := ch.dispatcher.Deliver(cmd.Context(), p, req)

	if g := delivery.Guidance(out); g != "" {
		fmt.Fprintln(cmd.OutOrStdout(), g)
	}
	if link, ok := ch.link(); ok {
		fmt.Fprintln(cmd.OutOrStdout(), "🔗", link)
	}

	journal, closeJournal, err := openJournal()
	if err != nil {
		logger.Warn("journal unavailable", zap.Error(err))
	} else {
		defer closeJournal()
		if err := journal.AppendDelivery(cmd.Context(), store.DeliveryEventData{
			SessionID: cmd.Name(),
			Filename:  p.Filename,
			Outcome:   out.Kind.String(),
			Detail:    out.String(),
		}); err != nil {
			logger.Warn("journal write failed", zap.Error(err))
		}
	}

	if out.Kind == delivery.Failed {
		return out.Err
	}
	return nil
}
