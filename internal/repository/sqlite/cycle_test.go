package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
	"github.com/hercal-app/hercal/internal/repository/sqlite"
)

func createTestCycle(t *testing.T, db *sqlite.DB, userID int64, last, next time.Time) *domain.Cycle {
	t.Helper()
	cycle := &domain.Cycle{
		UserID:          userID,
		LastPeriodStart: last,
		NextPeriodStart: next,
		CycleLength:     int(next.Sub(last).Hours() / 24),
	}
	if err := db.Cycles().Create(context.Background(), cycle); err != nil {
		t.Fatalf("create cycle: %v", err)
	}
	return cycle
}

func TestCycleRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "cycles@example.com")

	cycle := createTestCycle(t, db, user.ID, day(2024, 1, 1), day(2024, 1, 29))
	if cycle.ID == 0 {
		t.Fatal("expected cycle ID to be set")
	}

	got, err := db.Cycles().GetByID(ctx, cycle.ID, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.LastPeriodStart.Equal(day(2024, 1, 1)) || !got.NextPeriodStart.Equal(day(2024, 1, 29)) {
		t.Fatalf("dates mismatch: %v / %v", got.LastPeriodStart, got.NextPeriodStart)
	}
	if got.CycleLength != 28 {
		t.Fatalf("expected length 28, got %d", got.CycleLength)
	}
}

func TestCycleRepository_Create_RejectsBadOrder(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "order@example.com")

	cycle := &domain.Cycle{
		UserID:          user.ID,
		LastPeriodStart: day(2024, 1, 29),
		NextPeriodStart: day(2024, 1, 1),
	}
	err := db.Cycles().Create(context.Background(), cycle)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCycleRepository_ListByUser_Ordering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "list@example.com")

	// Insert out of chronological order.
	createTestCycle(t, db, user.ID, day(2024, 2, 1), day(2024, 3, 1))
	createTestCycle(t, db, user.ID, day(2024, 1, 1), day(2024, 2, 1))
	createTestCycle(t, db, user.ID, day(2024, 3, 1), day(2024, 4, 1))

	cycles, err := db.Cycles().ListByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(cycles) != 3 {
		t.Fatalf("expected 3 cycles, got %d", len(cycles))
	}
	for i := 1; i < len(cycles); i++ {
		if cycles[i].LastPeriodStart.After(cycles[i-1].LastPeriodStart) {
			t.Fatalf("cycles not in descending order at index %d", i)
		}
	}
}

func TestCycleRepository_ListByUser_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	createTestCycle(t, db, alice.ID, day(2024, 1, 1), day(2024, 1, 29))

	cycles, err := db.Cycles().ListByUser(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(cycles) != 0 {
		t.Fatalf("expected no cycles for other user, got %d", len(cycles))
	}

	got, err := db.Cycles().GetByID(ctx, 1, bob.ID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign record, got %v (%v)", err, got)
	}
}

func TestCycleRepository_ListByUserPage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "page@example.com")

	start := day(2024, 1, 1)
	for i := 0; i < 7; i++ {
		last := start.AddDate(0, 0, i*30)
		createTestCycle(t, db, user.ID, last, last.AddDate(0, 0, 28))
	}

	page, err := db.Cycles().ListByUserPage(ctx, user.ID, 5, 0)
	if err != nil {
		t.Fatalf("ListByUserPage: %v", err)
	}
	if len(page) != 5 {
		t.Fatalf("expected 5 cycles, got %d", len(page))
	}

	rest, err := db.Cycles().ListByUserPage(ctx, user.ID, 5, 5)
	if err != nil {
		t.Fatalf("ListByUserPage offset: %v", err)
	}
	if len(rest) != 2 {
		t.Fatalf("expected 2 cycles, got %d", len(rest))
	}

	total, err := db.Cycles().CountByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if total != 7 {
		t.Fatalf("expected count 7, got %d", total)
	}
}

func TestCycleRepository_Update(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "update@example.com")

	cycle := createTestCycle(t, db, user.ID, day(2024, 1, 1), day(2024, 1, 29))

	cycle.LastPeriodStart = day(2024, 1, 2)
	cycle.NextPeriodStart = day(2024, 2, 1)
	cycle.CycleLength = 30
	if err := db.Cycles().Update(ctx, cycle); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := db.Cycles().GetByID(ctx, cycle.ID, user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.LastPeriodStart.Equal(day(2024, 1, 2)) || got.CycleLength != 30 {
		t.Fatalf("update not persisted: %v length %d", got.LastPeriodStart, got.CycleLength)
	}
}

func TestCycleRepository_Update_MissingRecord(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "missing@example.com")

	cycle := &domain.Cycle{
		ID:              12345,
		UserID:          user.ID,
		LastPeriodStart: day(2024, 1, 1),
		NextPeriodStart: day(2024, 1, 29),
	}
	err := db.Cycles().Update(context.Background(), cycle)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCycleRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "delete@example.com")

	cycle := createTestCycle(t, db, user.ID, day(2024, 1, 1), day(2024, 1, 29))

	if err := db.Cycles().Delete(ctx, cycle.ID, user.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := db.Cycles().Delete(ctx, cycle.ID, user.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCycleRepository_DeleteCascadesWithUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db, "cascade@example.com")

	createTestCycle(t, db, user.ID, day(2024, 1, 1), day(2024, 1, 29))

	if _, err := db.SqlDB.ExecContext(ctx, "DELETE FROM users WHERE id = ?", user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	count, err := db.Cycles().CountByUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("CountByUser: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected cycles removed with user, got %d", count)
	}
}
