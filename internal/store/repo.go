package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Purpose string    // exact match when non-empty
	Level   string    // exact match when non-empty
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider string `gorm:"not null"`
	Model    string `gorm:"not null;index"`
	Purpose  string `gorm:"not null;index"`
	// Level is the quiz level the request generated, empty for other calls.
	Level        string `gorm:"not null;default:'';index"`
	InputTokens  int    `gorm:"not null;default:0"`
	OutputTokens int    `gorm:"not null;default:0"`
	LatencyMs    int64  `gorm:"not null;default:0"`
	Success      bool   `gorm:"not null"`
	ErrorMessage string `gorm:"not null;default:''"`
	RequestBody  string `gorm:"not null;default:''"`
	ResponseBody string `gorm:"not null;default:''"`
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int       `gorm:"primaryKey;autoIncrement"`
	Sequence  int64     `gorm:"not null;uniqueIndex"`
	Timestamp time.Time `gorm:"not null;index"`
	LLMRequestEventData
}

func (LLMRequestEvent) TableName() string { return "llm_request_events" }

// LLMUsageStats aggregates calls and tokens for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMLevelUsage aggregates calls and outcomes for one quiz level.
type LLMLevelUsage struct {
	Level        string
	Calls        int
	Failures     int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates calls and tokens for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// EventQuerier reads back recorded LLM request events.
type EventQuerier interface {
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error)
	LLMUsageByLevel(ctx context.Context) ([]LLMLevelUsage, error)
}
