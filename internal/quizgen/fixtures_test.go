package quizgen

import (
	"encoding/json"
	"fmt"
	"testing"
)

// sampleQuiz returns a well-formed quiz for level.
func sampleQuiz(level Level) []Question {
	n := level.QuestionCount()
	qs := make([]Question, n)
	for i := range qs {
		id := fmt.Sprintf("q%d", i+1)
		switch level {
		case LevelEasy:
			qs[i] = Question{
				ID:          id,
				Type:        TypeMultipleChoice,
				Content:     fmt.Sprintf("Đạo hàm của $x^%d$ là?", i+2),
				Options:     []string{fmt.Sprintf("$%dx^%d$", i+2, i+1), "$x$", "$0$", "$1$"},
				Answer:      fmt.Sprintf("$%dx^%d$", i+2, i+1),
				Explanation: "Áp dụng $(x^n)' = nx^{n-1}$.",
			}
		case LevelChallenge:
			qs[i] = Question{
				ID:      id,
				Type:    TypeTrueFalse,
				Content: "Cho hàm số $y = x^3 - 3x$.",
				SubItems: []SubItem{
					{Text: "Hàm số có hai điểm cực trị.", Answer: true},
					{Text: "Hàm số đồng biến trên $\\mathbb{R}$.", Answer: false},
					{Text: "Giá trị cực đại bằng 2.", Answer: true},
					{Text: "Đồ thị cắt trục hoành tại 2 điểm.", Answer: false},
				},
				Explanation: "$y' = 3x^2 - 3$ đổi dấu tại $x = \\pm 1$.",
			}
		case LevelFinal:
			qs[i] = Question{
				ID:          id,
				Type:        TypeShortAnswer,
				Content:     fmt.Sprintf("Tính $\\int_0^%d 2x\\,dx$.", i+1),
				Answer:      fmt.Sprintf("%d", (i+1)*(i+1)),
				Explanation: "Nguyên hàm của $2x$ là $x^2$.",
			}
		}
	}
	return qs
}

func quizJSON(t *testing.T, qs []Question) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(quizOutput{Questions: qs})
	if err != nil {
		t.Fatalf("marshal quiz: %v", err)
	}
	return b
}
