package quizgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// MaxTokens is the token budget for the whole quiz reply.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// Curriculum scopes question content, e.g. a national programme and
	// exam format.
	Curriculum string

	// Language is the language all question text is written in.
	Language string

	// StrictValidation runs the shape checks in Validate on every reply.
	// Counts, option uniqueness and answer membership are enforced here
	// even when a backend ignores part of the output schema.
	StrictValidation bool
}

// DefaultConfig targets the Vietnamese upper-secondary national exam.
func DefaultConfig() Config {
	return Config{
		MaxTokens:        20000,
		Temperature:      0.7,
		Curriculum:       "the Vietnamese General Education Programme 2018 (GDPT 2018), upper-secondary (THPT) national exam format",
		Language:         "Vietnamese",
		StrictValidation: true,
	}
}
