package quizgen

import "github.com/tkha2026/luyenthi/internal/llm"

// Output schemas, one per level. The payload is wrapped in an object because
// several backends only accept an object at the top level.
var (
	EasySchema      = buildSchema(LevelEasy)
	ChallengeSchema = buildSchema(LevelChallenge)
	FinalSchema     = buildSchema(LevelFinal)
)

// SchemaFor returns the output schema for level, or nil for an unknown level.
func SchemaFor(level Level) *llm.Schema {
	switch level {
	case LevelEasy:
		return EasySchema
	case LevelChallenge:
		return ChallengeSchema
	case LevelFinal:
		return FinalSchema
	}
	return nil
}

func buildSchema(level Level) *llm.Schema {
	count := level.QuestionCount()
	return &llm.Schema{
		Name:        "quiz-" + lowerLevel(level),
		Description: level.Blurb(),
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": count,
					"maxItems": count,
					"items":    questionSchema(level.QuestionType()),
				},
			},
			"required":             []any{"questions"},
			"additionalProperties": false,
		},
	}
}

func questionSchema(t QuestionType) map[string]any {
	props := map[string]any{
		"id": map[string]any{
			"type":        "string",
			"description": "Identifier unique within this quiz, e.g. q1",
		},
		"type": map[string]any{
			"type": "string",
			"enum": []any{string(t)},
		},
		"content": map[string]any{
			"type":        "string",
			"description": "Question stem. Math, physics and chemistry notation in LaTeX between $ signs.",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Worked solution or justification",
		},
	}
	required := []any{"id", "type", "content"}

	switch t {
	case TypeMultipleChoice:
		props["options"] = map[string]any{
			"type":     "array",
			"items":    map[string]any{"type": "string"},
			"minItems": OptionCount,
			"maxItems": OptionCount,
		}
		props["answer"] = map[string]any{
			"type":        "string",
			"description": "Exact text of the one correct option",
		}
		required = append(required, "options", "answer")
	case TypeTrueFalse:
		props["content"].(map[string]any)["description"] = "Shared lead-in for the four statements"
		props["subItems"] = map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text":   map[string]any{"type": "string"},
					"answer": map[string]any{"type": "boolean"},
				},
				"required":             []any{"text", "answer"},
				"additionalProperties": false,
			},
			"minItems": SubItemCount,
			"maxItems": SubItemCount,
		}
		required = append(required, "subItems")
	case TypeShortAnswer:
		props["answer"] = map[string]any{
			"type":        "string",
			"description": "Short final answer: a number or a keyword",
		}
		required = append(required, "answer")
	}

	// Strict-mode backends require every property to be listed.
	required = append(required, "explanation")

	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"required":             required,
		"additionalProperties": false,
	}
}

func lowerLevel(l Level) string {
	switch l {
	case LevelEasy:
		return "easy"
	case LevelChallenge:
		return "challenge"
	case LevelFinal:
		return "final"
	}
	return "unknown"
}
