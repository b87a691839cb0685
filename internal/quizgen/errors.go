package quizgen

import (
	"errors"
	"fmt"

	"github.com/tkha2026/luyenthi/internal/llm"
)

// Failure kinds reported by Generate. Every error returned by Generate wraps
// exactly one of these, so callers can branch with errors.Is.
var (
	ErrEmptyResponse    = errors.New("quiz backend returned no content")
	ErrParseFailure     = errors.New("quiz backend reply is not a valid quiz")
	ErrTransportFailure = errors.New("quiz backend request failed")
)

// UserMessage is the single line shown to the learner for any generation
// failure.
const UserMessage = "Could not create the quiz. Check your connection and try again."

// classify maps a provider error onto one of the failure kinds.
func classify(err error) error {
	var (
		empty   *llm.ErrEmptyResponse
		invalid *llm.ErrInvalidResponse
		trunc   *llm.ErrMaxTokensExceeded
	)
	switch {
	case errors.As(err, &empty):
		return fmt.Errorf("%w: %w", ErrEmptyResponse, err)
	case errors.As(err, &invalid), errors.As(err, &trunc):
		return fmt.Errorf("%w: %w", ErrParseFailure, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}
}

// IsGenerationFailure reports whether err is any of the three failure kinds.
func IsGenerationFailure(err error) bool {
	return errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrParseFailure) ||
		errors.Is(err, ErrTransportFailure)
}
