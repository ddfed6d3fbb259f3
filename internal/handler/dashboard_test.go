package handler_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
)

// flakyCycleRepo fails ListByUser with a transient fault a fixed number
// of times before serving data. The embedded interface covers the
// operations a given test never reaches.
type flakyCycleRepo struct {
	domain.CycleRepository
	failures int
	calls    int
	cycles   []domain.Cycle
}

func (r *flakyCycleRepo) ListByUser(ctx context.Context, userID int64) ([]domain.Cycle, error) {
	r.calls++
	if r.calls <= r.failures {
		return nil, fmt.Errorf("list cycles: %w: database is locked", domain.ErrStoreUnavailable)
	}
	return r.cycles, nil
}

func TestDashboard_FullPageCarriesPayload(t *testing.T) {
	srv := newTestServer(t, nil)
	client := newTestClient(t)
	registerAndLogin(t, srv, client, "fullpage@example.com")

	resp, err := client.Post(srv.URL+"/api/cycles", "application/json",
		strings.NewReader(`{"lastPeriodStart":"2024-01-01","nextPeriodStart":"2024-01-29"}`))
	if err != nil {
		t.Fatalf("POST /api/cycles: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("seed: expected 201, got %d", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	page := string(body)
	// The full page serves the same payload the fragment does.
	for _, want := range []string{"Average cycle length", "28 days", "Jan 01, 2024"} {
		if !strings.Contains(page, want) {
			t.Fatalf("expected %q in the full page, got: %s", want, page)
		}
	}
	// An already-hydrated page must not re-fetch the fragment.
	if strings.Contains(page, "data-fragment-url") {
		t.Fatal("expected no fragment URL on the hydrated page")
	}
}

func TestDashboard_FallsBackToSkeletonWhenStoreUnavailable(t *testing.T) {
	repo := &flakyCycleRepo{failures: 1 << 30}
	srv := newTestServer(t, repo)
	client := newTestClient(t)
	registerAndLogin(t, srv, client, "skeleton@example.com")

	resp, err := client.Get(srv.URL + "/dashboard")
	if err != nil {
		t.Fatalf("GET /dashboard: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if repo.calls != 3 {
		t.Fatalf("expected 3 repository calls before the fallback, got %d", repo.calls)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `id="cycle-dashboard"`) {
		t.Fatal("expected the dashboard container in the skeleton")
	}
	if !strings.Contains(string(body), `data-fragment-url="/dashboard/fragment"`) {
		t.Fatal("expected the fragment URL so the client controller can hydrate")
	}
}

func TestDashboardFragment_RecoversFromTransientFaults(t *testing.T) {
	repo := &flakyCycleRepo{failures: 2, cycles: []domain.Cycle{{
		ID:              1,
		UserID:          1,
		LastPeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		NextPeriodStart: time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
		CycleLength:     28,
	}}}
	srv := newTestServer(t, repo)
	client := newTestClient(t)
	registerAndLogin(t, srv, client, "flaky@example.com")

	resp, err := client.Get(srv.URL + "/dashboard/fragment")
	if err != nil {
		t.Fatalf("GET /dashboard/fragment: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after retries, got %d", resp.StatusCode)
	}
	if repo.calls != 3 {
		t.Fatalf("expected 3 repository calls, got %d", repo.calls)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Average cycle length") {
		t.Fatal("expected stats in the fragment")
	}
}

func TestDashboardFragment_StoreUnavailableMapsTo503(t *testing.T) {
	repo := &flakyCycleRepo{failures: 1 << 30}
	srv := newTestServer(t, repo)
	client := newTestClient(t)
	registerAndLogin(t, srv, client, "down@example.com")

	resp, err := client.Get(srv.URL + "/dashboard/fragment")
	if err != nil {
		t.Fatalf("GET /dashboard/fragment: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	if repo.calls != 3 {
		t.Fatalf("expected exactly 3 repository calls, got %d", repo.calls)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Database unavailable") {
		t.Fatalf("expected unavailable message, got %q", body)
	}
}

func TestDashboardLoadMore_AppendsRowsOverSSE(t *testing.T) {
	srv := newTestServer(t, nil)
	client := newTestClient(t)
	registerAndLogin(t, srv, client, "more@example.com")

	// Seed 7 entries through the JSON API.
	for i := 0; i < 7; i++ {
		payload := fmt.Sprintf(`{"lastPeriodStart":"2024-%02d-01","nextPeriodStart":"2024-%02d-01"}`, i+1, i+2)
		resp, err := client.Post(srv.URL+"/api/cycles", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("POST /api/cycles: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed %d: expected 201, got %d", i, resp.StatusCode)
		}
	}

	resp, err := client.Get(srv.URL + "/dashboard/cycles/more?offset=5")
	if err != nil {
		t.Fatalf("GET load more: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Fatalf("expected SSE content type, got %q", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	events := string(body)
	if !strings.Contains(events, "cycle-rows") {
		t.Fatal("expected a patch targeting the row container")
	}
	if !strings.Contains(events, "cycles-load-more") {
		t.Fatal("expected the load-more control to be replaced")
	}
}
