package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tkha2026/luyenthi/internal/app"
	"github.com/tkha2026/luyenthi/internal/llm"
	"github.com/tkha2026/luyenthi/internal/logging"
	"github.com/tkha2026/luyenthi/internal/quizgen"
	"github.com/tkha2026/luyenthi/internal/session"
	"github.com/tkha2026/luyenthi/internal/store"
)

// runApp opens the event store, builds the generator and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	log, closeLog, err := openLogger(cmd)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()
	ctx = logging.NewContext(ctx, log)

	// The event store only records LLM calls; the quiz runs without it.
	var events store.EventRepo
	dbPath, err := resolveDBPath(cmd)
	if err == nil {
		var st *store.Store
		st, err = store.Open(dbPath)
		if err == nil {
			defer st.Close()
			events = st.EventRepo()
		}
	}
	if err != nil {
		log.WithError(err).Warn("event store unavailable, LLM calls will not be recorded")
	}

	provider, err := llm.NewProviderFromEnv(ctx, events, log)
	if err != nil {
		if errors.Is(err, llm.ErrNoProviderConfigured) {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Put GEMINI_API_KEY in the environment or a .env file.")
		}
		return fmt.Errorf("llm provider: %w", err)
	}

	gen := quizgen.New(provider, quizgen.DefaultConfig(), log.WithField("component", "quizgen"))
	ctrl := session.NewController(gen, session.DefaultConfig(), log.WithField("component", "session"))

	log.WithField("model", provider.ModelID()).Info("starting tui")
	return app.Run(ctx, app.Options{
		Controller: ctrl,
		Logger:     log,
	})
}
