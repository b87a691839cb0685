package llm

import "context"

// PurposeUnknown is reported for requests whose context carries no purpose.
const PurposeUnknown = "unknown"

// requestTag labels a request for the event log.
type requestTag int

const (
	tagPurpose requestTag = iota
	tagLevel
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, tagPurpose, purpose)
}

// PurposeFrom extracts the purpose label from the context, or
// PurposeUnknown.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(tagPurpose).(string); ok && v != "" {
		return v
	}
	return PurposeUnknown
}

// HasPurpose reports whether a caller already labelled ctx.
func HasPurpose(ctx context.Context) bool {
	return PurposeFrom(ctx) != PurposeUnknown
}

// WithLevel records the quiz level a request generates.
func WithLevel(ctx context.Context, level string) context.Context {
	return context.WithValue(ctx, tagLevel, level)
}

// LevelFrom returns the quiz level attached to ctx, or "".
func LevelFrom(ctx context.Context) string {
	v, _ := ctx.Value(tagLevel).(string)
	return v
}
