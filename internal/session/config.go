package session

import (
	"math/rand/v2"
	"time"
)

// DefaultRevealDelay is how long feedback stays up before the quiz moves on.
const DefaultRevealDelay = 1500 * time.Millisecond

// Config controls the behavior of the Controller.
type Config struct {
	// RevealDelay is the pause between feedback and the next question for
	// multiple-choice and true-false questions.
	RevealDelay time.Duration

	CorrectPool []string
	WrongPool   []string

	// Rand drives the feedback pick. A nil Rand uses the global source.
	Rand *rand.Rand

	// NewID returns a fresh session id. Defaults to a random UUID.
	NewID func() string
}

// DefaultConfig returns the standard controller settings.
func DefaultConfig() Config {
	return Config{
		RevealDelay: DefaultRevealDelay,
		CorrectPool: DefaultCorrectPool,
		WrongPool:   DefaultWrongPool,
	}
}

// SeededRand returns a deterministic random source.
func SeededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
