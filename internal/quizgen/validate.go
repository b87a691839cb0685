package quizgen

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ShapeError describes why a generated quiz does not have the shape its
// level requires.
type ShapeError struct {
	Index   int    // question position, -1 for quiz-level problems
	ID      string // question id when known
	Message string
}

func (e *ShapeError) Error() string {
	if e.Index < 0 {
		return "quiz: " + e.Message
	}
	if e.ID != "" {
		return fmt.Sprintf("question %d (%s): %s", e.Index+1, e.ID, e.Message)
	}
	return fmt.Sprintf("question %d: %s", e.Index+1, e.Message)
}

// Validator checks generated questions against the rules of their level.
// It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator that reports fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// Validate returns nil when qs is a well-formed quiz for level, or a
// *ShapeError for the first problem found.
func (val *Validator) Validate(level Level, qs []Question) error {
	want := level.QuestionCount()
	if want == 0 {
		return &ShapeError{Index: -1, Message: fmt.Sprintf("unknown level %q", level)}
	}
	if len(qs) != want {
		return &ShapeError{Index: -1, Message: fmt.Sprintf("%s needs exactly %d questions, got %d", level, want, len(qs))}
	}
	if err := val.v.Var(qs, "unique=ID"); err != nil {
		return &ShapeError{Index: -1, Message: "question ids are not unique"}
	}

	wantType := level.QuestionType()
	for i := range qs {
		q := &qs[i]
		if err := val.v.Struct(q); err != nil {
			return &ShapeError{Index: i, ID: q.ID, Message: describe(err)}
		}
		if q.Type != wantType {
			return &ShapeError{Index: i, ID: q.ID, Message: fmt.Sprintf("type %q, %s quizzes use %q", q.Type, level, wantType)}
		}
		if msg := val.checkVariant(q); msg != "" {
			return &ShapeError{Index: i, ID: q.ID, Message: msg}
		}
	}
	return nil
}

func (val *Validator) checkVariant(q *Question) string {
	switch q.Type {
	case TypeMultipleChoice:
		if err := val.v.Var(q.Options, fmt.Sprintf("len=%d,unique,dive,required", OptionCount)); err != nil {
			return fmt.Sprintf("options must be %d distinct non-empty strings", OptionCount)
		}
		if !slices.Contains(q.Options, q.Answer) {
			return fmt.Sprintf("answer %q is not one of the options", q.Answer)
		}
	case TypeTrueFalse:
		if err := val.v.Var(q.SubItems, fmt.Sprintf("len=%d", SubItemCount)); err != nil {
			return fmt.Sprintf("needs exactly %d sub-items, got %d", SubItemCount, len(q.SubItems))
		}
		for j := range q.SubItems {
			if err := val.v.Struct(&q.SubItems[j]); err != nil {
				return fmt.Sprintf("sub-item %c: %s", 'a'+j, describe(err))
			}
		}
	case TypeShortAnswer:
		if err := val.v.Var(strings.TrimSpace(q.Answer), "required"); err != nil {
			return "answer is empty"
		}
	}
	return ""
}

// describe turns validator errors into a short message naming the first
// failing field.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "oneof":
		return fmt.Sprintf("%s %q is not a known question type", fe.Field(), fe.Value())
	}
	return fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag())
}
