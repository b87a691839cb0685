package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GormEventRepo implements EventRepo and EventQuerier on the
// llm_request_events table.
type GormEventRepo struct {
	db  *gorm.DB
	seq *sequenceCounter
	now func() time.Time
}

var (
	_ EventRepo    = (*GormEventRepo)(nil)
	_ EventQuerier = (*GormEventRepo)(nil)
)

func (r *GormEventRepo) clock() time.Time {
	if r.now != nil {
		return r.now().UTC()
	}
	return time.Now().UTC()
}

func (r *GormEventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ev := LLMRequestEvent{
		Sequence:            seqNum,
		Timestamp:           r.clock(),
		LLMRequestEventData: data,
	}
	if err := r.db.WithContext(ctx).Create(&ev).Error; err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// QueryLLMEvents returns events newest first, filtered by opts.
func (r *GormEventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	q := r.db.WithContext(ctx).Model(&LLMRequestEvent{})
	if opts.After > 0 {
		q = q.Where("sequence > ?", opts.After)
	}
	if opts.Before > 0 {
		q = q.Where("sequence < ?", opts.Before)
	}
	if !opts.From.IsZero() {
		q = q.Where("timestamp >= ?", opts.From.UTC())
	}
	if !opts.To.IsZero() {
		q = q.Where("timestamp <= ?", opts.To.UTC())
	}
	if opts.Purpose != "" {
		q = q.Where("purpose = ?", opts.Purpose)
	}
	if opts.Level != "" {
		q = q.Where("level = ?", opts.Level)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	var events []LLMRequestEvent
	if err := q.Order("sequence DESC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	return events, nil
}

// GetLLMEvent returns the event with the given id, or nil if it does not exist.
func (r *GormEventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	var ev LLMRequestEvent
	err := r.db.WithContext(ctx).First(&ev, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return &ev, nil
}

// LLMUsageByPurpose aggregates token usage per purpose label.
func (r *GormEventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	var stats []LLMUsageStats
	err := r.db.WithContext(ctx).Model(&LLMRequestEvent{}).
		Select(`purpose,
			COUNT(*) AS calls,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens,
			CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER) AS avg_latency_ms`).
		Group("purpose").
		Order("purpose").
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	return stats, nil
}

// LLMUsageByModel aggregates token usage per model ID.
func (r *GormEventRepo) LLMUsageByModel(ctx context.Context) ([]LLMModelUsage, error) {
	var usage []LLMModelUsage
	err := r.db.WithContext(ctx).Model(&LLMRequestEvent{}).
		Select(`model,
			COUNT(*) AS calls,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens`).
		Group("model").
		Order("model").
		Scan(&usage).Error
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	return usage, nil
}

// LLMUsageByLevel aggregates quiz requests per level. Events without a
// level are left out.
func (r *GormEventRepo) LLMUsageByLevel(ctx context.Context) ([]LLMLevelUsage, error) {
	var usage []LLMLevelUsage
	err := r.db.WithContext(ctx).Model(&LLMRequestEvent{}).
		Select(`level,
			COUNT(*) AS calls,
			SUM(CASE WHEN success THEN 0 ELSE 1 END) AS failures,
			COALESCE(SUM(output_tokens), 0) AS output_tokens,
			CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER) AS avg_latency_ms`).
		Where("level <> ?", "").
		Group("level").
		Order("level").
		Scan(&usage).Error
	if err != nil {
		return nil, fmt.Errorf("query usage by level: %w", err)
	}
	return usage, nil
}
