package quiz

import (
	"time"

	"github.com/tkha2026/luyenthi/internal/session"
)

// quizLoadedMsg carries the generator result for one load ticket.
type quizLoadedMsg struct {
	Result session.LoadResult
}

// revealDoneMsg is sent when the feedback window for Token has elapsed.
type revealDoneMsg struct {
	Token session.Token
}

// spinnerTickMsg is sent at short intervals to animate the loading spinner.
type spinnerTickMsg time.Time
