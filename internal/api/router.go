package api

import (
	"database/sql"
	"net/http"

	"github.com/findora/findora/internal/photos"
)

// Options configures optional parts of the API.
type Options struct {
	// Photos stores uploaded item photos. Without it, uploads are rejected.
	Photos photos.Store
	// AllowRegistration opens POST /api/admin/register.
	AllowRegistration bool
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, opts Options) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, AllowRegistration: opts.AllowRegistration}
	foundItemsHandler := &FoundItemsHandler{DB: db, Photos: opts.Photos}
	lostReportsHandler := &LostReportsHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)

	mux.HandleFunc("GET /api/health", Health)

	// Admin accounts.
	mux.HandleFunc("POST /api/admin/register", authHandler.Register)
	mux.HandleFunc("POST /api/admin/login", authHandler.Login)
	mux.Handle("POST /api/admin/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Found items: public reads, admin writes.
	mux.HandleFunc("GET /api/found-items", foundItemsHandler.List)
	mux.HandleFunc("GET /api/found-items/{id}", foundItemsHandler.Get)
	mux.Handle("POST /api/found-items", authMW(http.HandlerFunc(foundItemsHandler.Create)))
	mux.Handle("PUT /api/found-items/{id}", authMW(http.HandlerFunc(foundItemsHandler.Update)))
	mux.Handle("DELETE /api/found-items/{id}", authMW(http.HandlerFunc(foundItemsHandler.Delete)))
	mux.Handle("PUT /api/found-items/{id}/verify", authMW(http.HandlerFunc(foundItemsHandler.Verify)))
	mux.Handle("PUT /api/found-items/{id}/unverify", authMW(http.HandlerFunc(foundItemsHandler.Unverify)))

	// Lost reports: submitted by the public form.
	mux.HandleFunc("GET /api/lost-reports", lostReportsHandler.List)
	mux.HandleFunc("POST /api/lost-reports", lostReportsHandler.Create)
	mux.HandleFunc("PUT /api/lost-reports/{id}", lostReportsHandler.UpdateStatus)
	mux.HandleFunc("DELETE /api/lost-reports/{id}", lostReportsHandler.Delete)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "route not found")
	})

	return mux
}

// Health handles GET /api/health.
func Health(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
