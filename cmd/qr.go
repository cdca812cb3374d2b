package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/swipematch/internal/delivery"
)

var qrCmd = &cobra.Command{
	Use:   "qr",
	Short: "Fetch a QR code image and deliver qr.png",
	RunE: func(cmd *cobra.Command, args []string) error {
		if d, _ := cmd.Flags().GetString("data"); d != "" {
			cfg.Delivery.QRData = d
		}
		fetch := newChannels().qrFetcher()
		if fetch == nil {
			return errors.New("nothing to encode: set delivery.qr_data, delivery.video_url or --data")
		}
		p, err := fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch qr (%s): %w", delivery.Classify(err), err)
		}
		return deliver(cmd, p, delivery.ShareRequest{Title: "Scan me 💌"})
	},
}

func init() {
	qrCmd.Flags().String("data", "", "Text to encode (overrides delivery.qr_data)")
}
