package session

import "math/rand/v2"

// Default feedback pools.
var (
	DefaultCorrectPool = []string{
		"Brilliant! Keep this up and the exam is yours.",
		"Correct! That is top-of-the-class work.",
		"Spot on. Keep the momentum going!",
	}
	DefaultWrongPool = []string{
		"Not quite. Take another careful look.",
		"So close! One small slip makes all the difference.",
		"Hmm, this one is easier than it looks. Try the next one!",
	}
)

const (
	perfectMessage = "Outstanding! You are ready for the exam."
	keepGoingMsg   = "Not bad at all, but a bit more practice will make it certain."
)

// Pick returns a random entry of pool, or "" for an empty pool.
func Pick(pool []string, rng *rand.Rand) string {
	if len(pool) == 0 {
		return ""
	}
	if rng == nil {
		return pool[rand.IntN(len(pool))]
	}
	return pool[rng.IntN(len(pool))]
}

// SummaryMessage returns the closing line for a finished quiz.
func SummaryMessage(score, total int) string {
	if total > 0 && score == total {
		return perfectMessage
	}
	return keepGoingMsg
}
