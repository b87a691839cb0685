package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tkha2026/luyenthi/internal/logging"
	"github.com/tkha2026/luyenthi/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "luyenthi",
	Short: "AI exam practice in the terminal",
	Long:  "Luyện Thi: pick a topic and a level, answer an AI-written quiz in the national exam format.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadDotEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

// ExecuteContext runs the root command with ctx.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LUYENTHI_DB env var)")
	rootCmd.PersistentFlags().String("log-file", "", "Path to log file (overrides LUYENTHI_LOG_FILE env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides LUYENTHI_LOG_LEVEL env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv reads .env from the working directory. A missing file is fine;
// variables already set in the environment win.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then LUYENTHI_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openLogger builds the file-backed logger from --log-file/--log-level,
// then LUYENTHI_LOG_FILE/LUYENTHI_LOG_LEVEL.
func openLogger(cmd *cobra.Command) (*logrus.Logger, func(), error) {
	file, _ := cmd.Flags().GetString("log-file")
	if file == "" {
		file = logging.DefaultFile()
	}
	level, _ := cmd.Flags().GetString("log-level")
	if level == "" {
		level = logging.LevelFromEnv()
	}

	log, closer, err := logging.New(logging.Options{File: file, Level: level})
	if err != nil {
		return nil, func() {}, err
	}
	return log, func() { _ = closer.Close() }, nil
}
