package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tkha2026/luyenthi/internal/llm"
	"github.com/tkha2026/luyenthi/internal/quizgen"
	"github.com/tkha2026/luyenthi/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded quiz generation requests",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		levelVal, _ := cmd.Flags().GetString("level")

		opts := store.QueryOpts{Limit: limit, Purpose: purpose}
		if levelVal != "" {
			level, err := quizgen.ParseLevel(levelVal)
			if err != nil {
				return err
			}
			opts.Level = string(level)
		}

		return withEvents(cmd, func(ctx context.Context, q store.EventQuerier) error {
			events, err := q.QueryLLMEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			printEvents(cmd.OutOrStdout(), events)
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View one LLM event with the quiz it produced",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id int
		if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		raw, _ := cmd.Flags().GetBool("raw")

		return withEvents(cmd, func(ctx context.Context, q store.EventQuerier) error {
			e, err := q.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if e == nil {
				return fmt.Errorf("event %d not found", id)
			}
			printEvent(cmd.OutOrStdout(), e, raw)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show usage per purpose and level with estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(ctx context.Context, q store.EventQuerier) error {
			return printUsage(ctx, cmd.OutOrStdout(), q)
		})
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (quiz-gen, quiz-preview)")
	llmListCmd.Flags().StringP("level", "l", "", "Filter by quiz level (easy, challenge, final)")
	llmViewCmd.Flags().Bool("raw", false, "Print the response body instead of the decoded quiz")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

// withEvents opens the event store for the duration of fn.
func withEvents(cmd *cobra.Command, fn func(context.Context, store.EventQuerier) error) error {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer s.Close()
	return fn(cmd.Context(), s.EventRepo())
}

func printEvents(w io.Writer, events []store.LLMRequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-19s  %-12s  %-9s  %-24s  %-6s  %-7s  %s\n",
		"ID", "Timestamp", "Purpose", "Level", "Model", "Out", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		level := e.Level
		if level == "" {
			level = "-"
		}
		fmt.Fprintf(w, "%-5d  %-19s  %-12s  %-9s  %-24s  %-6d  %-7d  %s\n",
			e.ID,
			e.Timestamp.Local().Format(timeLayout),
			truncate(e.Purpose, 12),
			level,
			truncate(e.Model, 24),
			e.OutputTokens,
			e.LatencyMs,
			ok,
		)
	}
}

// isQuizPurpose reports whether events with this purpose carry a quiz reply.
func isQuizPurpose(purpose string) bool {
	return purpose == quizgen.PurposeQuiz || purpose == quizgen.PurposePreview
}

func printEvent(w io.Writer, e *store.LLMRequestEvent, raw bool) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintf(w, "ID:        %d\n", e.ID)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
	fmt.Fprintf(w, "Model:     %s\n", e.Model)
	fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	if e.Level != "" {
		fmt.Fprintf(w, "Level:     %s\n", e.Level)
	}
	fmt.Fprintf(w, "Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
	fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
	if e.ErrorMessage != "" {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}

	fmt.Fprintf(w, "\n%s\nREQUEST\n%s\n", sep, sep)
	fmt.Fprintln(w, orNotCaptured(e.RequestBody))

	if !raw && e.Success && isQuizPurpose(e.Purpose) {
		qs, err := quizgen.ParseReply([]byte(e.ResponseBody))
		if err == nil {
			fmt.Fprintf(w, "%s\nQUIZ (%d questions)\n%s\n", sep, len(qs), sep)
			printQuiz(w, qs)
			return
		}
		fmt.Fprintf(w, "%s\nRESPONSE (could not decode quiz: %v)\n%s\n", sep, err, sep)
	} else {
		fmt.Fprintf(w, "%s\nRESPONSE\n%s\n", sep, sep)
	}
	fmt.Fprintln(w, orNotCaptured(e.ResponseBody))
}

func orNotCaptured(body string) string {
	if body == "" {
		return "(not captured)"
	}
	return body
}

func printUsage(ctx context.Context, w io.Writer, q store.EventQuerier) error {
	byPurpose, err := q.LLMUsageByPurpose(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return nil
	}

	rule := strings.Repeat("─", 72)

	fmt.Fprintf(w, "Usage by Purpose\n%s\n", rule)
	fmt.Fprintf(w, "%-16s  %6s  %10s  %10s  %10s  %8s\n",
		"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	fmt.Fprintln(w, rule)
	var calls, in, out int
	for _, st := range byPurpose {
		fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d  %8d\n",
			truncate(st.Purpose, 16), st.Calls, st.InputTokens, st.OutputTokens,
			st.InputTokens+st.OutputTokens, st.AvgLatencyMs)
		calls += st.Calls
		in += st.InputTokens
		out += st.OutputTokens
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-16s  %6d  %10d  %10d  %10d\n", "TOTAL", calls, in, out, in+out)

	byLevel, err := q.LLMUsageByLevel(ctx)
	if err != nil {
		return fmt.Errorf("query level usage: %w", err)
	}
	if len(byLevel) > 0 {
		fmt.Fprintf(w, "\nQuizzes by Level\n%s\n", rule)
		fmt.Fprintf(w, "%-16s  %6s  %8s  %10s  %8s\n", "Level", "Calls", "Failed", "Output", "Avg Ms")
		fmt.Fprintln(w, rule)
		for _, lu := range byLevel {
			fmt.Fprintf(w, "%-16s  %6d  %8d  %10d  %8d\n",
				truncate(lu.Level, 16), lu.Calls, lu.Failures, lu.OutputTokens, lu.AvgLatencyMs)
		}
	}

	byModel, err := q.LLMUsageByModel(ctx)
	if err != nil {
		return fmt.Errorf("query model usage: %w", err)
	}
	if len(byModel) == 0 {
		return nil
	}

	fmt.Fprintf(w, "\nEstimated Cost (USD)\n%s\n", rule)
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", "Model", "Calls", "Input", "Output", "Cost")
	fmt.Fprintln(w, rule)

	var total float64
	var unpriced []string
	for _, mu := range byModel {
		cost := llm.LookupCost(mu.Model)
		if cost == nil {
			unpriced = append(unpriced, mu.Model)
			fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
				truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, "?")
			continue
		}
		c := cost.Cost(mu.InputTokens, mu.OutputTokens)
		total += c
		fmt.Fprintf(w, "%-32s  %6d  %10d  %10d  %10s\n",
			truncate(mu.Model, 32), mu.Calls, mu.InputTokens, mu.OutputTokens, formatCost(c))
	}

	fmt.Fprintln(w, rule)
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s  %10s  %10s\n", label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
