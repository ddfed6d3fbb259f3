package handler

import (
	"io/fs"
	"net/http"

	"github.com/hercal-app/hercal/internal/service"
)

// RegisterRoutes wires all application routes onto the mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	cycles *service.CycleService,
	loginLimiter *service.TokenBucket,
	staticFS fs.FS,
	cookieSecure bool,
) {
	authHandler := NewAuthHandler(auth, cookieSecure)
	dashboardHandler := NewDashboardHandler(cycles)
	cyclePages := NewCyclePageHandler(cycles)
	cycleAPI := NewCycleAPIHandler(cycles)

	// Health and static assets.
	mux.HandleFunc("GET /healthz", HandleHealthz)
	mux.Handle("GET /static/", http.FileServerFS(staticFS))

	// Public pages.
	mux.Handle("GET /{$}", OptionalAuth(auth, http.HandlerFunc(HandleHome)))
	mux.HandleFunc("GET /login", authHandler.HandleLoginPage)
	mux.Handle("POST /login", RateLimit(loginLimiter, http.HandlerFunc(authHandler.HandleLogin)))
	mux.HandleFunc("GET /register", authHandler.HandleRegisterPage)
	mux.Handle("POST /register", RateLimit(loginLimiter, http.HandlerFunc(authHandler.HandleRegister)))
	mux.HandleFunc("POST /logout", authHandler.HandleLogout)

	// Dashboard. The page itself is an instant skeleton; the fragment and
	// load-more endpoints carry the data.
	mux.Handle("GET /dashboard", RequirePage(auth, http.HandlerFunc(dashboardHandler.HandleDashboard)))
	mux.Handle("GET /dashboard/fragment", RequirePage(auth, http.HandlerFunc(dashboardHandler.HandleFragment)))
	mux.Handle("GET /dashboard/cycles/more", RequirePage(auth, http.HandlerFunc(dashboardHandler.HandleLoadMore)))

	// Cycle entry pages.
	mux.Handle("GET /cycles/new", RequirePage(auth, http.HandlerFunc(cyclePages.HandleNewPage)))
	mux.Handle("POST /cycles/new", RequirePage(auth, http.HandlerFunc(cyclePages.HandleNew)))
	mux.Handle("GET /cycles/{id}/edit", RequirePage(auth, http.HandlerFunc(cyclePages.HandleEditPage)))
	mux.Handle("POST /cycles/{id}/edit", RequirePage(auth, http.HandlerFunc(cyclePages.HandleEdit)))
	mux.Handle("GET /cycles/{id}/delete", RequirePage(auth, http.HandlerFunc(cyclePages.HandleDeletePage)))
	mux.Handle("POST /cycles/{id}/delete", RequirePage(auth, http.HandlerFunc(cyclePages.HandleDelete)))

	// JSON API.
	mux.Handle("GET /api/cycles", RequireAuth(auth, http.HandlerFunc(cycleAPI.HandleList)))
	mux.Handle("GET /api/cycles/estimate", RequireAuth(auth, http.HandlerFunc(cycleAPI.HandleEstimate)))
	mux.Handle("POST /api/cycles", RequireAuth(auth, http.HandlerFunc(cycleAPI.HandleCreate)))
	mux.Handle("GET /api/cycles/{id}", RequireAuth(auth, http.HandlerFunc(cycleAPI.HandleGet)))
	mux.Handle("PUT /api/cycles/{id}", RequireAuth(auth, http.HandlerFunc(cycleAPI.HandleUpdate)))
	mux.Handle("DELETE /api/cycles/{id}", RequireAuth(auth, http.HandlerFunc(cycleAPI.HandleDelete)))
}
