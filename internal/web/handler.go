// internal/web/handler.go
package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"papertrade/internal/service"
	"papertrade/internal/session"
	"papertrade/internal/util"
)

// DefaultTimeout bounds request handling end to end.
const DefaultTimeout = 60 * time.Second

// sessionCookie is the name of the cookie carrying the opaque session token.
const sessionCookie = "session_id"

// Handler serves every page and form submission of the application.
type Handler struct {
	service  service.TradingService
	sessions session.Store
	renderer *Renderer
	logger   *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(svc service.TradingService, sessions session.Store, renderer *Renderer, logger *slog.Logger) *Handler {
	return &Handler{
		service:  svc,
		sessions: sessions,
		renderer: renderer,
		logger:   logger,
	}
}

// apologyData is the view model of the generic error (and confirmation) page.
type apologyData struct {
	Message string
}

// apology renders the generic message page. Every user-facing failure kind
// renders identically; callers distinguish failures only by message text.
func (h *Handler) apology(w http.ResponseWriter, err error) {
	if util.IsUserError(err) {
		h.render(w, http.StatusBadRequest, "apology.html", apologyData{Message: err.Error()})
		return
	}
	h.logger.Error("Unhandled service error", "error", err)
	h.render(w, http.StatusInternalServerError, "apology.html", apologyData{Message: "something went wrong"})
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, data interface{}) {
	if err := h.renderer.Render(w, status, name, data); err != nil {
		h.logger.Error("Failed to render template", "template", name, "error", err)
	}
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// RequireLogin is the auth gate wrapping every protected route. It resolves
// the session cookie to a user ID and places it in the request context;
// unauthenticated requests are redirected to the login form before any
// business logic runs.
func (h *Handler) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		userID, err := h.sessions.Get(r.Context(), cookie.Value)
		if err != nil {
			clearSessionCookie(w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
	})
}

// Index shows the portfolio: every holding with a refreshed price snapshot,
// cash, and the grand total.
// GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	view, err := h.service.Portfolio(r.Context(), userID)
	if err != nil {
		h.apology(w, err)
		return
	}
	h.render(w, http.StatusOK, "index.html", view)
}

// QuotePage shows the quote form.
// GET /quote
func (h *Handler) QuotePage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "quote.html", nil)
}

// QuoteSubmit looks up the submitted symbol and shows its current price.
// POST /quote
func (h *Handler) QuoteSubmit(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Quote(r.Context(), r.FormValue("symbol"))
	if err != nil {
		h.apology(w, err)
		return
	}
	h.render(w, http.StatusOK, "quoted.html", q)
}

// BuyPage shows the buy form.
// GET /buy
func (h *Handler) BuyPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "buy.html", nil)
}

// BuySubmit purchases shares and redirects to the portfolio.
// POST /buy
func (h *Handler) BuySubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	shares, err := strconv.ParseInt(r.FormValue("shares"), 10, 64)
	if err != nil {
		h.apology(w, util.ErrInvalidShares)
		return
	}

	if err := h.service.Buy(r.Context(), userID, r.FormValue("symbol"), shares); err != nil {
		h.apology(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SellPage shows the sell form.
// GET /sell
func (h *Handler) SellPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "sell.html", nil)
}

// SellSubmit sells shares and redirects to the portfolio.
// POST /sell
func (h *Handler) SellSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	shares, err := strconv.ParseInt(r.FormValue("shares"), 10, 64)
	if err != nil {
		h.apology(w, util.ErrInvalidShares)
		return
	}

	if err := h.service.Sell(r.Context(), userID, r.FormValue("symbol"), shares); err != nil {
		h.apology(w, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// HistoryPage lists the user's full trade ledger in creation order.
// GET /history
func (h *Handler) HistoryPage(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	trades, err := h.service.History(r.Context(), userID)
	if err != nil {
		h.apology(w, err)
		return
	}
	h.render(w, http.StatusOK, "history.html", trades)
}

// AddCashPage shows the add-cash form.
// GET /add-cash
func (h *Handler) AddCashPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "addcash.html", nil)
}

// AddCashSubmit credits the account with virtual cash. On success it renders
// a confirmation message instead of redirecting home; that response shape is
// kept deliberately.
// POST /add-cash
func (h *Handler) AddCashSubmit(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFrom(r.Context())

	amount, err := strconv.ParseInt(r.FormValue("amount"), 10, 64)
	if err != nil {
		h.apology(w, util.ErrInvalidAmount)
		return
	}

	if err := h.service.AddCash(r.Context(), userID, amount); err != nil {
		h.apology(w, err)
		return
	}
	h.render(w, http.StatusOK, "apology.html", apologyData{Message: "cash is loaded in the account"})
}

// LoginPage shows the login form.
// GET /login
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "login.html", nil)
}

// LoginSubmit verifies credentials and starts a session. Any prior session
// is cleared first, so re-submitting the form is idempotent.
// POST /login
func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	h.dropSession(w, r)

	user, err := h.service.Login(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		h.apology(w, err)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.apology(w, err)
		return
	}
	setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session unconditionally and always succeeds.
// GET|POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.dropSession(w, r)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// dropSession invalidates the current session token, if any, and clears the
// cookie.
func (h *Handler) dropSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookie); err == nil {
		if err := h.sessions.Delete(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("Failed to delete session", "error", err)
		}
	}
	clearSessionCookie(w)
}

// RegisterPage shows the registration form.
// GET /register
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "register.html", nil)
}

// RegisterSubmit creates the account, starts a session for it, and proceeds
// to the portfolio.
// POST /register
func (h *Handler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Register(r.Context(),
		r.FormValue("username"),
		r.FormValue("password"),
		r.FormValue("confirmation"),
	)
	if err != nil {
		h.apology(w, err)
		return
	}

	token, err := h.sessions.Create(r.Context(), user.ID)
	if err != nil {
		h.apology(w, err)
		return
	}
	setSessionCookie(w, token)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
