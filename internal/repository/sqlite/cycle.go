package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
)

// CycleRepository implements domain.CycleRepository using SQLite. All
// queries are scoped by user_id so records owned by other users behave as
// if they do not exist.
type CycleRepository struct {
	db *sql.DB
}

// NewCycleRepository creates a new SQLite-backed CycleRepository.
func NewCycleRepository(db *DB) *CycleRepository {
	return &CycleRepository{db: db.SqlDB}
}

const cycleColumns = `id, user_id, last_period_start, next_period_start, cycle_length, created_at, updated_at`

func (r *CycleRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Cycle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cycleColumns+` FROM cycles
		 WHERE user_id = ? ORDER BY last_period_start DESC, id DESC`, userID)
	if err != nil {
		return nil, storeError("list cycles", err)
	}
	defer rows.Close()
	return scanCycles(rows)
}

func (r *CycleRepository) ListByUserPage(ctx context.Context, userID int64, limit, offset int) ([]domain.Cycle, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+cycleColumns+` FROM cycles
		 WHERE user_id = ? ORDER BY last_period_start DESC, id DESC LIMIT ? OFFSET ?`,
		userID, limit, offset)
	if err != nil {
		return nil, storeError("list cycles page", err)
	}
	defer rows.Close()
	return scanCycles(rows)
}

func (r *CycleRepository) CountByUser(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cycles WHERE user_id = ?`, userID).Scan(&count)
	if err != nil {
		return 0, storeError("count cycles", err)
	}
	return count, nil
}

func (r *CycleRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Cycle, error) {
	c := &domain.Cycle{}
	err := r.db.QueryRowContext(ctx,
		`SELECT `+cycleColumns+` FROM cycles WHERE id = ? AND user_id = ?`, id, userID,
	).Scan(&c.ID, &c.UserID, &c.LastPeriodStart, &c.NextPeriodStart, &c.CycleLength, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeError("get cycle by id", err)
	}
	return c, nil
}

func (r *CycleRepository) Create(ctx context.Context, cycle *domain.Cycle) error {
	if !cycle.NextPeriodStart.After(cycle.LastPeriodStart) {
		return fmt.Errorf("%w: next period start date must be after last period start date", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO cycles (user_id, last_period_start, next_period_start, cycle_length, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cycle.UserID, cycle.LastPeriodStart, cycle.NextPeriodStart, cycle.CycleLength, now, now,
	)
	if err != nil {
		return storeError("insert cycle", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	cycle.ID = id
	cycle.CreatedAt = now
	cycle.UpdatedAt = now
	return nil
}

// Update rewrites the record's dates and derived length. A record that was
// deleted concurrently (or never belonged to the user) affects zero rows
// and yields ErrNotFound rather than silently succeeding.
func (r *CycleRepository) Update(ctx context.Context, cycle *domain.Cycle) error {
	if !cycle.NextPeriodStart.After(cycle.LastPeriodStart) {
		return fmt.Errorf("%w: next period start date must be after last period start date", domain.ErrInvalidInput)
	}

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE cycles SET last_period_start = ?, next_period_start = ?, cycle_length = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		cycle.LastPeriodStart, cycle.NextPeriodStart, cycle.CycleLength, now, cycle.ID, cycle.UserID,
	)
	if err != nil {
		return storeError("update cycle", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}

	cycle.UpdatedAt = now
	return nil
}

func (r *CycleRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM cycles WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return storeError("delete cycle", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCycles(rows *sql.Rows) ([]domain.Cycle, error) {
	var cycles []domain.Cycle
	for rows.Next() {
		var c domain.Cycle
		if err := rows.Scan(&c.ID, &c.UserID, &c.LastPeriodStart, &c.NextPeriodStart, &c.CycleLength, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		cycles = append(cycles, c)
	}
	return cycles, rows.Err()
}

// storeError wraps a driver error, tagging transient faults with
// domain.ErrStoreUnavailable so callers can branch on errors.Is without
// inspecting driver internals.
func storeError(op string, err error) error {
	if isTransientError(err) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isTransientError reports whether the error is a transient SQLite fault
// (SQLITE_BUSY, SQLITE_LOCKED, or an unreachable database file) as opposed
// to a constraint violation or programming error.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "unable to open database")
}

// isUniqueConstraintError checks if the error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "unique constraint"))
}
