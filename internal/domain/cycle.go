package domain

import (
	"context"
	"time"
)

// Cycle is a single tracked menstrual cycle entry. NextPeriodStart is
// always strictly after LastPeriodStart; CycleLength is derived from the
// two dates at write time. Both dates carry day granularity only and are
// normalized to UTC midnight.
type Cycle struct {
	ID              int64
	UserID          int64
	LastPeriodStart time.Time
	NextPeriodStart time.Time
	CycleLength     int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Estimate holds statistics derived from a user's cycle history. It is
// computed on demand and never persisted. NextPeriod and DaysUntil are nil
// unless at least one cycle exists and the average length is positive.
type Estimate struct {
	AverageCycleLength int
	NextPeriod         *time.Time
	DaysUntil          *int
}

// CycleRepository defines persistence operations for cycles. Every
// operation is scoped to the owning user; records belonging to other users
// behave as if they do not exist. Any operation may fail with
// ErrStoreUnavailable when the store is transiently unreachable.
type CycleRepository interface {
	// ListByUser returns all of a user's cycles ordered by
	// LastPeriodStart descending (most recent entry first).
	ListByUser(ctx context.Context, userID int64) ([]Cycle, error)
	// ListByUserPage returns a page of the same ordering.
	ListByUserPage(ctx context.Context, userID int64, limit, offset int) ([]Cycle, error)
	CountByUser(ctx context.Context, userID int64) (int, error)
	GetByID(ctx context.Context, id, userID int64) (*Cycle, error)
	Create(ctx context.Context, cycle *Cycle) error
	Update(ctx context.Context, cycle *Cycle) error
	Delete(ctx context.Context, id, userID int64) error
}
