package service

import (
	"context"
	"fmt"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
)

// CycleService handles cycle CRUD with per-user ownership checks, plus the
// dashboard read path which tolerates transient store faults.
type CycleService struct {
	cycles    domain.CycleRepository
	retry     RetryPolicy
	inclusive bool
}

// NewCycleService creates a new CycleService. When inclusiveLength is true
// the stored cycle length counts the start day as well (the legacy form
// behavior); otherwise it is the plain difference between the two dates.
func NewCycleService(cycles domain.CycleRepository, retry RetryPolicy, inclusiveLength bool) *CycleService {
	return &CycleService{cycles: cycles, retry: retry, inclusive: inclusiveLength}
}

// DashboardData is the single payload backing the dashboard page and its
// fragment: the user's full history plus the derived estimate.
type DashboardData struct {
	Cycles   []domain.Cycle
	Estimate domain.Estimate
}

// Dashboard fetches the user's cycles through the bounded retry policy and
// derives the estimate. When the store stays unavailable the returned error
// matches domain.ErrStoreUnavailable so handlers answer 503, not 500.
func (s *CycleService) Dashboard(ctx context.Context, userID int64, today time.Time) (*DashboardData, error) {
	cycles, err := RetryQuery(ctx, s.retry, func(ctx context.Context) ([]domain.Cycle, error) {
		return s.cycles.ListByUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		Cycles:   cycles,
		Estimate: EstimateCycles(cycles, today),
	}, nil
}

// MoreCycles returns a further page of the user's history for the
// dashboard's load-more flow, through the same retry policy.
func (s *CycleService) MoreCycles(ctx context.Context, userID int64, limit, offset int) ([]domain.Cycle, int, error) {
	type page struct {
		cycles []domain.Cycle
		total  int
	}
	p, err := RetryQuery(ctx, s.retry, func(ctx context.Context) (page, error) {
		cycles, err := s.cycles.ListByUserPage(ctx, userID, limit, offset)
		if err != nil {
			return page{}, err
		}
		total, err := s.cycles.CountByUser(ctx, userID)
		if err != nil {
			return page{}, err
		}
		return page{cycles: cycles, total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return p.cycles, p.total, nil
}

// ListByUser returns all of a user's cycles, most recent first.
func (s *CycleService) ListByUser(ctx context.Context, userID int64) ([]domain.Cycle, error) {
	return s.cycles.ListByUser(ctx, userID)
}

// GetByID returns one of the user's cycles, or ErrNotFound if the record is
// missing or owned by someone else.
func (s *CycleService) GetByID(ctx context.Context, userID, id int64) (*domain.Cycle, error) {
	return s.cycles.GetByID(ctx, id, userID)
}

// Create validates the date ordering and stores a new cycle for the user.
func (s *CycleService) Create(ctx context.Context, userID int64, lastStart, nextStart time.Time) (*domain.Cycle, error) {
	lastStart, nextStart = DateOnly(lastStart), DateOnly(nextStart)
	if err := validateDates(lastStart, nextStart); err != nil {
		return nil, err
	}

	cycle := &domain.Cycle{
		UserID:          userID,
		LastPeriodStart: lastStart,
		NextPeriodStart: nextStart,
		CycleLength:     s.lengthDays(lastStart, nextStart),
	}

	if err := s.cycles.Create(ctx, cycle); err != nil {
		return nil, fmt.Errorf("create cycle: %w", err)
	}
	return cycle, nil
}

// Update rewrites an existing cycle's dates and recomputes its length. A
// record that is missing, owned by another user, or deleted concurrently
// yields ErrNotFound.
func (s *CycleService) Update(ctx context.Context, userID, id int64, lastStart, nextStart time.Time) (*domain.Cycle, error) {
	lastStart, nextStart = DateOnly(lastStart), DateOnly(nextStart)
	if err := validateDates(lastStart, nextStart); err != nil {
		return nil, err
	}

	cycle, err := s.cycles.GetByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	cycle.LastPeriodStart = lastStart
	cycle.NextPeriodStart = nextStart
	cycle.CycleLength = s.lengthDays(lastStart, nextStart)

	if err := s.cycles.Update(ctx, cycle); err != nil {
		return nil, err
	}
	return cycle, nil
}

// Delete removes one of the user's cycles.
func (s *CycleService) Delete(ctx context.Context, userID, id int64) error {
	return s.cycles.Delete(ctx, id, userID)
}

func (s *CycleService) lengthDays(lastStart, nextStart time.Time) int {
	length := daysBetween(lastStart, nextStart)
	if s.inclusive {
		length++
	}
	return length
}

func validateDates(lastStart, nextStart time.Time) error {
	if lastStart.IsZero() || nextStart.IsZero() {
		return fmt.Errorf("%w: both period start dates are required", domain.ErrInvalidInput)
	}
	if !nextStart.After(lastStart) {
		return fmt.Errorf("%w: next period start date must be after last period start date", domain.ErrInvalidInput)
	}
	return nil
}
