package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/y4m4usr/hl001-quiz-must1/internal/config"
	"github.com/y4m4usr/hl001-quiz-must1/internal/logging"
	"github.com/y4m4usr/hl001-quiz-must1/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "lensquiz",
	Short: "Contact lens product quiz generator",
	Long: "lensquiz builds multiple-choice questions from a contact lens catalog " +
		"and resolves product images on a static host.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LENSQUIZ_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to the catalog .csv or .json file (overrides LENSQUIZ_CATALOG)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides LENSQUIZ_LOG_LEVEL)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(probesCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads LENSQUIZ_* variables and applies persistent flag
// overrides on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.ConfigFromEnv()
	if err != nil {
		return cfg, err
	}
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		cfg.CatalogPath = p
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	return cfg, nil
}

// newLogger builds the console logger for CLI commands.
func newLogger(cfg config.Config) (*zap.Logger, error) {
	return logging.New(cfg.LogLevel, true)
}

// openStore opens the event store at the configured path: --db flag
// (highest priority), then LENSQUIZ_DB env var, then the default XDG path.
func openStore(cfg config.Config) (*store.Store, error) {
	dbPath := cfg.DBPath
	if dbPath != "" {
		if err := store.EnsureDir(dbPath); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	} else {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = p
	}

	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
