package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkha2026/luyenthi/internal/llm"
	"github.com/tkha2026/luyenthi/internal/quizgen"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate one quiz and print it (no TUI, no database)",
	Long: `Generate a quiz for a topic and level and print it.

This is a stateless developer tool for checking question quality and
prompt changes. Nothing is recorded in the event store.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().String("topic", "", "Quiz topic (required)")
	generateCmd.Flags().String("level", "easy", "Level: easy, challenge or final")
	generateCmd.Flags().Bool("json", false, "Print the raw questions as JSON")
	_ = generateCmd.MarkFlagRequired("topic")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic, _ := cmd.Flags().GetString("topic")
	levelVal, _ := cmd.Flags().GetString("level")
	asJSON, _ := cmd.Flags().GetBool("json")

	level, err := quizgen.ParseLevel(levelVal)
	if err != nil {
		return err
	}
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("topic must not be empty")
	}

	log, closeLog, err := openLogger(cmd)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	ctx := llm.WithPurpose(cmd.Context(), quizgen.PurposePreview)
	provider, err := llm.NewProviderFromEnv(ctx, nil, log)
	if err != nil {
		return fmt.Errorf("LLM provider: %w", err)
	}

	out := cmd.OutOrStdout()
	if !asJSON {
		fmt.Fprintf(out, "Topic: %s (%s, %d questions)\nGenerating...\n\n",
			topic, level.Title(), level.QuestionCount())
	}

	gen := quizgen.New(provider, quizgen.DefaultConfig(), log)
	qs, err := gen.Generate(ctx, topic, level)
	if err != nil {
		return fmt.Errorf("generate quiz: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"questions": qs})
	}
	printQuiz(out, qs)
	return nil
}

// printQuiz writes a readable listing of qs with answers.
func printQuiz(w io.Writer, qs []quizgen.Question) {
	sep := strings.Repeat("─", 60)
	for i, q := range qs {
		fmt.Fprintf(w, "%d. [%s] %s\n", i+1, q.Type, q.Content)
		switch q.Type {
		case quizgen.TypeMultipleChoice:
			for j, opt := range q.Options {
				mark := " "
				if opt == q.Answer {
					mark = "*"
				}
				fmt.Fprintf(w, "   %s %c) %s\n", mark, 'A'+j, opt)
			}
		case quizgen.TypeTrueFalse:
			for j, it := range q.SubItems {
				verdict := "F"
				if it.Answer {
					verdict = "T"
				}
				fmt.Fprintf(w, "   %c) [%s] %s\n", 'a'+j, verdict, it.Text)
			}
		case quizgen.TypeShortAnswer:
			fmt.Fprintf(w, "   Answer: %s\n", q.Answer)
		}
		if q.Explanation != "" {
			fmt.Fprintf(w, "   Explanation: %s\n", q.Explanation)
		}
		fmt.Fprintln(w, sep)
	}
}
