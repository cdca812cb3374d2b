package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/swipematch/internal/delivery"
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Download and deliver our-moment.mp4",
	RunE: func(cmd *cobra.Command, args []string) error {
		if u, _ := cmd.Flags().GetString("url"); u != "" {
			cfg.Delivery.VideoURL = u
		}
		fetch := newChannels().video()
		if fetch == nil {
			return errors.New("no video configured: set delivery.video_url or --url")
		}
		p, err := fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch video (%s): %w", delivery.Classify(err), err)
		}
		return deliver(cmd, p, delivery.ShareRequest{Title: "Our moment 🎬"})
	},
}

func init() {
	videoCmd.Flags().String("url", "", "Video URL (overrides delivery.video_url)")
}
