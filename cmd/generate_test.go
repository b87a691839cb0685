package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tkha2026/luyenthi/internal/quizgen"
)

func TestPrintQuiz(t *testing.T) {
	qs := []quizgen.Question{
		{
			ID:      "q1",
			Type:    quizgen.TypeMultipleChoice,
			Content: "Đạo hàm của $x^2$?",
			Options: []string{"$2x$", "$x$", "$2$", "$x^2$"},
			Answer:  "$2x$",
		},
		{
			ID:      "q2",
			Type:    quizgen.TypeTrueFalse,
			Content: "Xét hàm số",
			SubItems: []quizgen.SubItem{
				{Text: "đồng biến", Answer: true},
				{Text: "nghịch biến", Answer: false},
			},
			Explanation: "Xét dấu đạo hàm.",
		},
		{
			ID:      "q3",
			Type:    quizgen.TypeShortAnswer,
			Content: "Tính $2+2$",
			Answer:  "4",
		},
	}

	var buf bytes.Buffer
	printQuiz(&buf, qs)
	out := buf.String()

	assert.Contains(t, out, "1. [multiple-choice] Đạo hàm của $x^2$?")
	assert.Contains(t, out, "* A) $2x$")
	assert.Contains(t, out, "  B) $x$")
	assert.Contains(t, out, "a) [T] đồng biến")
	assert.Contains(t, out, "b) [F] nghịch biến")
	assert.Contains(t, out, "Explanation: Xét dấu đạo hàm.")
	assert.Contains(t, out, "Answer: 4")
	assert.Equal(t, 3, strings.Count(out, strings.Repeat("─", 60)))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "luyenthi (devel)\n", buf.String())
}
