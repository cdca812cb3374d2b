package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/swipematch/internal/config"
	"github.com/abhisek/swipematch/internal/logging"
	"github.com/abhisek/swipematch/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "swipematch",
	Short: "Swipe through the deck, say yes, keep the moment",
	Long:  "SwipeMatch: a terminal swipe deck that ends in a match and a shareable story image.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
}

// Loaded by setup before any command runs.
var (
	cfg    config.Config
	logger = zap.NewNop()
)

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default $XDG_CONFIG_HOME/swipematch/config.yaml)")
	rootCmd.PersistentFlags().String("journal", "", "Path to the SQLite session journal (overrides SWIPEMATCH_JOURNAL; empty disables it)")
	rootCmd.PersistentFlags().String("log-file", "", "Path to the JSON log file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Also log to stderr at debug level")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(relayCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration and builds the logger. Flags override the file
// and the environment.
func setup(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("journal"); p != "" {
		loaded.Journal = p
	}
	if p, _ := cmd.Flags().GetString("log-file"); p != "" {
		loaded.Logging.File = p
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		loaded.Logging.Console = true
		loaded.Logging.Level = "debug"
	}
	cfg = loaded

	l, err := logging.New(logging.Options{
		File:       cfg.Logging.File,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		Console:    cfg.Logging.Console,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = l.With(zap.String("cmd", cmd.Name()))
	return nil
}

// openJournal opens the configured journal. It returns a no-op repo and a
// no-op closer when the journal is disabled.
func openJournal() (store.EventRepo, func(), error) {
	if cfg.Journal == "" {
		return store.NopRepo{}, func() {}, nil
	}
	if err := store.EnsureDir(cfg.Journal); err != nil {
		return nil, nil, fmt.Errorf("create journal dir: %w", err)
	}
	st, err := store.Open(cfg.Journal)
	if err != nil {
		return nil, nil, fmt.Errorf("open journal: %w", err)
	}
	return st.EventRepo(), func() { st.Close() }, nil
}
