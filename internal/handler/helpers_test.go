package handler_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/hercal-app/hercal/internal/domain"
	"github.com/hercal-app/hercal/internal/handler"
	"github.com/hercal-app/hercal/internal/repository/sqlite"
	"github.com/hercal-app/hercal/internal/service"
)

const testJWTSecret = "test-secret-key-for-handler-tests"

var testStaticFS = fstest.MapFS{
	"static/css/app.css":        {Data: []byte("body{}")},
	"static/js/cycle-loader.js": {Data: []byte("// test stub")},
}

func fastPolicy() service.RetryPolicy {
	return service.RetryPolicy{MaxAttempts: 3, Delay: time.Millisecond}
}

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// newTestServer wires the full route table over a fresh database. When
// cycleRepo is nil the real SQLite repository is used; tests exercising
// fault behavior pass a scripted repository instead.
func newTestServer(t *testing.T, cycleRepo domain.CycleRepository) *httptest.Server {
	t.Helper()
	db := newTestDB(t)

	if cycleRepo == nil {
		cycleRepo = db.Cycles()
	}

	auth := service.NewAuthService(db.Users(), nil, testJWTSecret, 4)
	cycles := service.NewCycleService(cycleRepo, fastPolicy(), false)
	limiter := service.NewTokenBucket(100, 100)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, cycles, limiter, testStaticFS, false)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestClient returns an HTTP client with a cookie jar that does not
// follow redirects, so tests can assert on 3xx responses directly.
func newTestClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// registerAndLogin creates an account and signs in, leaving the auth
// cookie in the client's jar.
func registerAndLogin(t *testing.T, srv *httptest.Server, client *http.Client, email string) {
	t.Helper()

	resp, err := client.PostForm(srv.URL+"/register", url.Values{
		"email":            {email},
		"display_name":     {"Test User"},
		"password":         {"password123"},
		"confirm_password": {"password123"},
	})
	if err != nil {
		t.Fatalf("POST /register: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("register: expected 303, got %d", resp.StatusCode)
	}

	resp, err = client.PostForm(srv.URL+"/login", url.Values{
		"email":    {email},
		"password": {"password123"},
	})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", resp.StatusCode)
	}
}
