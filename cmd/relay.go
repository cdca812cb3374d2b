package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/swipematch/internal/relay"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Serve the LAN share relay",
	Long: `Serve shared images and videos over HTTP so a phone on the same network
can open them, either by link or by scanning the QR code at /s/<id>/qr.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rc := cfg.Relay
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			rc.Addr = addr
		}
		if pub, _ := cmd.Flags().GetString("public-url"); pub != "" {
			rc.PublicURL = pub
		}
		rc.QREndpoint = cfg.Delivery.QREndpoint

		return relay.NewServer(rc, logger.Named("relay")).Listen(cmd.Context())
	},
}

func init() {
	relayCmd.Flags().String("addr", "", "Listen address (overrides relay.addr)")
	relayCmd.Flags().String("public-url", "", "Base URL phones use to reach the relay (overrides relay.public_url)")
}
