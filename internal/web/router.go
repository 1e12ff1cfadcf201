// internal/web/router.go
package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter sets up and returns the HTTP router. Protected routes sit behind
// the RequireLogin gate; login, logout, and register are public.
func NewRouter(h *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Public routes
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.LoginSubmit)
	r.Get("/logout", h.Logout)
	r.Post("/logout", h.Logout)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.RegisterSubmit)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(h.RequireLogin)

		r.Get("/", h.Index)
		r.Get("/quote", h.QuotePage)
		r.Post("/quote", h.QuoteSubmit)
		r.Get("/buy", h.BuyPage)
		r.Post("/buy", h.BuySubmit)
		r.Get("/sell", h.SellPage)
		r.Post("/sell", h.SellSubmit)
		r.Get("/history", h.HistoryPage)
		r.Get("/add-cash", h.AddCashPage)
		r.Post("/add-cash", h.AddCashSubmit)
	})

	return r
}
