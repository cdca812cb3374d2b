package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/swipematch/internal/app"
	"github.com/abhisek/swipematch/internal/screens/match"
)

// runApp opens the journal, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command, skipIntro bool) error {
	journal, closeJournal, err := openJournal()
	if err != nil {
		return err
	}
	defer closeJournal()

	renderer, closeRenderer := newRenderer()
	defer closeRenderer()

	ch := newChannels()
	deps := app.Deps{
		Config:    cfg,
		Journal:   journal,
		Renderer:  renderer,
		Deliverer: ch.dispatcher,
		Link:      ch.link,
		Logger:    logger,
		SkipIntro: skipIntro,
	}
	if f := ch.video(); f != nil {
		deps.Video = match.Fetcher(f)
	}
	if f := ch.qrFetcher(); f != nil {
		deps.QR = match.Fetcher(f)
	}

	logger.Info("starting tui", zap.Bool("skip_intro", skipIntro), zap.Bool("journal", cfg.Journal != ""))
	return app.Run(cmd.Context(), deps)
}
