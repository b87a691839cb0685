package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

// quizSchema is a trimmed two-option version of the quiz payload schema.
func quizSchema() *Schema {
	return &Schema{
		Name:        "test-quiz",
		Description: "A small quiz payload",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": 1,
					"maxItems": 2,
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"id":      map[string]any{"type": "string"},
							"type":    map[string]any{"type": "string", "enum": []any{"multiple-choice"}},
							"content": map[string]any{"type": "string"},
							"options": map[string]any{
								"type":     "array",
								"items":    map[string]any{"type": "string"},
								"minItems": 2,
								"maxItems": 2,
							},
						},
						"required":             []any{"id", "type", "content", "options"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []any{"questions"},
			"additionalProperties": false,
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{
			name: "valid",
			raw:  `{"questions":[{"id":"q1","type":"multiple-choice","content":"$2+2$?","options":["3","4"]}]}`,
		},
		{
			name:    "missing required field",
			raw:     `{"questions":[{"id":"q1","type":"multiple-choice","options":["3","4"]}]}`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			raw:     `{"questions":[{"id":1,"type":"multiple-choice","content":"x","options":["3","4"]}]}`,
			wantErr: true,
		},
		{
			name:    "type outside enum",
			raw:     `{"questions":[{"id":"q1","type":"true-false","content":"x","options":["3","4"]}]}`,
			wantErr: true,
		},
		{
			name:    "too many options",
			raw:     `{"questions":[{"id":"q1","type":"multiple-choice","content":"x","options":["1","2","3"]}]}`,
			wantErr: true,
		},
		{
			name:    "too many questions",
			raw:     `{"questions":[{"id":"a","type":"multiple-choice","content":"x","options":["1","2"]},{"id":"b","type":"multiple-choice","content":"x","options":["1","2"]},{"id":"c","type":"multiple-choice","content":"x","options":["1","2"]}]}`,
			wantErr: true,
		},
		{
			name:    "unexpected property",
			raw:     `{"questions":[],"note":"here you go"}`,
			wantErr: true,
		},
		{
			name:    "malformed JSON",
			raw:     `Here is your quiz: {`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(quizSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("expected no error, got: %v", err)
				}
				return
			}
			var invErr *ErrInvalidResponse
			if !errors.As(err, &invErr) {
				t.Fatalf("expected ErrInvalidResponse, got: %T (%v)", err, err)
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`{"anything":"goes"}`)
	if err := validateResponse(nil, raw); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestCheckContent_Blank(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		err := checkContent("gemini-2.5-pro", quizSchema(), json.RawMessage(raw), "end")
		var empty *ErrEmptyResponse
		if !errors.As(err, &empty) {
			t.Fatalf("checkContent(%q) = %T (%v), want ErrEmptyResponse", raw, err, err)
		}
		if empty.Model != "gemini-2.5-pro" {
			t.Errorf("model = %q, want gemini-2.5-pro", empty.Model)
		}
	}
}

func TestCheckContent_BlankWithoutSchema(t *testing.T) {
	err := checkContent("m", nil, json.RawMessage(""), "end")
	var empty *ErrEmptyResponse
	if !errors.As(err, &empty) {
		t.Fatalf("expected ErrEmptyResponse, got %T", err)
	}
}

func TestCheckContent_DelegatesToSchema(t *testing.T) {
	err := checkContent("m", quizSchema(), json.RawMessage(`{"questions":"nope"}`), "end")
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
}

func TestCheckContent_TruncatedReply(t *testing.T) {
	raw := json.RawMessage(`{"questions":[{"id":"q1","type":"multi`)
	err := checkContent("m", quizSchema(), raw, "max_tokens")
	var trunc *ErrMaxTokensExceeded
	if !errors.As(err, &trunc) {
		t.Fatalf("expected ErrMaxTokensExceeded, got %T (%v)", err, err)
	}
	if string(trunc.Content) != string(raw) {
		t.Errorf("content = %s", trunc.Content)
	}
}
