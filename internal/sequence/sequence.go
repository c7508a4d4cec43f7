package sequence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Allocator mints unique, strictly increasing integers per named sequence.
// The counter row is created lazily; the first allocation returns 1.
type Allocator struct {
	db *gorm.DB
}

func NewAllocator(db *gorm.DB) *Allocator {
	return &Allocator{db: db}
}

// Next claims and returns the next value of the named sequence. The
// increment is a single conditional upsert, so concurrent allocations on
// the same name can never observe and store the same value.
func (a *Allocator) Next(ctx context.Context, name string) (int64, error) {
	var value int64
	err := a.db.WithContext(ctx).Raw(
		`INSERT INTO counters (name, value) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET value = counters.value + 1
		 RETURNING value`,
		name,
	).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("allocating id from sequence %q: %w", name, err)
	}
	return value, nil
}
