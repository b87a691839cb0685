package store

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// globalSequence is the single-row table behind sequenceCounter.
type globalSequence struct {
	ID      int   `gorm:"primaryKey;autoIncrement:false"`
	NextVal int64 `gorm:"not null;default:1"`
}

func (globalSequence) TableName() string { return "global_sequence" }

// sequenceCounter hands out the monotonic sequence stamped on every event.
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *gorm.DB
}

// newSequenceCounter creates a counter and ensures the tracking row exists.
func newSequenceCounter(db *gorm.DB) (*sequenceCounter, error) {
	if err := db.AutoMigrate(&globalSequence{}); err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}
	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&globalSequence{ID: 1, NextVal: 1}).Error
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.WithContext(ctx).
		Raw(`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`).
		Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
