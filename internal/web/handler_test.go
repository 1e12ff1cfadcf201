// internal/web/handler_test.go
package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"papertrade/internal/domain"
	"papertrade/internal/quote"
	"papertrade/internal/service"
	"papertrade/internal/session"
	"papertrade/internal/util"
)

// MockTradingService is a mock implementation of service.TradingService.
type MockTradingService struct {
	mock.Mock
}

func (m *MockTradingService) Register(ctx context.Context, username, password, confirmation string) (*domain.User, error) {
	args := m.Called(ctx, username, password, confirmation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockTradingService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockTradingService) Quote(ctx context.Context, symbol string) (*quote.Quote, error) {
	args := m.Called(ctx, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quote.Quote), args.Error(1)
}

func (m *MockTradingService) Buy(ctx context.Context, userID int64, symbol string, shares int64) error {
	args := m.Called(ctx, userID, symbol, shares)
	return args.Error(0)
}

func (m *MockTradingService) Sell(ctx context.Context, userID int64, symbol string, shares int64) error {
	args := m.Called(ctx, userID, symbol, shares)
	return args.Error(0)
}

func (m *MockTradingService) AddCash(ctx context.Context, userID int64, amount int64) error {
	args := m.Called(ctx, userID, amount)
	return args.Error(0)
}

func (m *MockTradingService) Portfolio(ctx context.Context, userID int64) (*service.PortfolioView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PortfolioView), args.Error(1)
}

func (m *MockTradingService) History(ctx context.Context, userID int64) ([]domain.Trade, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Trade), args.Error(1)
}

// testServer wires a router around a mocked service and a memory session
// store, the way the application does minus the database.
type testServer struct {
	router   http.Handler
	svc      *MockTradingService
	sessions *session.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	renderer, err := NewRenderer()
	require.NoError(t, err)

	svc := new(MockTradingService)
	sessions := session.NewMemoryStore()
	handler := NewHandler(svc, sessions, renderer, util.GetLogger())
	return &testServer{
		router:   NewRouter(handler, util.GetLogger()),
		svc:      svc,
		sessions: sessions,
	}
}

// loginAs creates a session for the user and returns its cookie.
func (ts *testServer) loginAs(t *testing.T, userID int64) *http.Cookie {
	t.Helper()
	token, err := ts.sessions.Create(context.Background(), userID)
	require.NoError(t, err)
	return &http.Cookie{Name: sessionCookie, Value: token}
}

func (ts *testServer) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func TestAuthGate(t *testing.T) {
	protected := []string{"/", "/quote", "/buy", "/sell", "/history", "/add-cash"}

	t.Run("UnauthenticatedIsRedirectedToLogin", func(t *testing.T) {
		ts := newTestServer(t)
		for _, path := range protected {
			rec := ts.get(path, nil)
			assert.Equal(t, http.StatusSeeOther, rec.Code, "path %s", path)
			assert.Equal(t, "/login", rec.Header().Get("Location"), "path %s", path)
		}
		// No business logic ran.
		ts.svc.AssertExpectations(t)
	})

	t.Run("StaleCookieIsRedirectedToLogin", func(t *testing.T) {
		ts := newTestServer(t)
		rec := ts.get("/", &http.Cookie{Name: sessionCookie, Value: "expired-token"})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("AuthenticatedUserSeesPortfolio", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)
		ts.svc.On("Portfolio", mock.Anything, int64(7)).Return(&service.PortfolioView{
			Holdings: []domain.Holding{},
			Cash:     decimal.RequireFromString("10000.00"),
			Total:    decimal.RequireFromString("10000.00"),
		}, nil).Once()

		rec := ts.get("/", cookie)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "$10000.00")
		ts.svc.AssertExpectations(t)
	})
}

func TestLoginFlow(t *testing.T) {
	t.Run("SuccessfulLoginSetsSessionAndRedirects", func(t *testing.T) {
		ts := newTestServer(t)
		ts.svc.On("Login", mock.Anything, "alice", "s3cret").
			Return(&domain.User{ID: 7, Username: "alice"}, nil).Once()

		rec := ts.postForm("/login", url.Values{"username": {"alice"}, "password": {"s3cret"}}, nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		var sessionSet bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == sessionCookie && c.Value != "" {
				sessionSet = true
				userID, err := ts.sessions.Get(context.Background(), c.Value)
				require.NoError(t, err)
				assert.Equal(t, int64(7), userID)
			}
		}
		assert.True(t, sessionSet, "login must set a session cookie bound to the user")
		ts.svc.AssertExpectations(t)
	})

	t.Run("BadCredentialsRenderApology", func(t *testing.T) {
		ts := newTestServer(t)
		ts.svc.On("Login", mock.Anything, "alice", "wrong").
			Return(nil, util.ErrInvalidCredentials).Once()

		rec := ts.postForm("/login", url.Values{"username": {"alice"}, "password": {"wrong"}}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid username and/or password")
		ts.svc.AssertExpectations(t)
	})

	t.Run("LoginClearsPriorSession", func(t *testing.T) {
		ts := newTestServer(t)
		old := ts.loginAs(t, 3)
		ts.svc.On("Login", mock.Anything, "alice", "s3cret").
			Return(&domain.User{ID: 7, Username: "alice"}, nil).Once()

		ts.postForm("/login", url.Values{"username": {"alice"}, "password": {"s3cret"}}, old)

		_, err := ts.sessions.Get(context.Background(), old.Value)
		assert.ErrorIs(t, err, util.ErrNoSession, "prior session must be invalidated")
	})

	t.Run("LogoutAlwaysSucceeds", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)

		rec := ts.postForm("/logout", url.Values{}, cookie)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get("Location"))
		_, err := ts.sessions.Get(context.Background(), cookie.Value)
		assert.ErrorIs(t, err, util.ErrNoSession)

		// Logging out without a session also succeeds.
		rec = ts.postForm("/logout", url.Values{}, nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestRegisterFlow(t *testing.T) {
	t.Run("SuccessfulRegistrationLogsIn", func(t *testing.T) {
		ts := newTestServer(t)
		ts.svc.On("Register", mock.Anything, "alice", "s3cret", "s3cret").
			Return(&domain.User{ID: 7, Username: "alice"}, nil).Once()

		rec := ts.postForm("/register", url.Values{
			"username":     {"alice"},
			"password":     {"s3cret"},
			"confirmation": {"s3cret"},
		}, nil)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))

		var sessionSet bool
		for _, c := range rec.Result().Cookies() {
			if c.Name == sessionCookie && c.Value != "" {
				sessionSet = true
			}
		}
		assert.True(t, sessionSet)
		ts.svc.AssertExpectations(t)
	})

	t.Run("DuplicateUsernameRendersApology", func(t *testing.T) {
		ts := newTestServer(t)
		ts.svc.On("Register", mock.Anything, "alice", "s3cret", "s3cret").
			Return(nil, util.ErrUsernameTaken).Once()

		rec := ts.postForm("/register", url.Values{
			"username":     {"alice"},
			"password":     {"s3cret"},
			"confirmation": {"s3cret"},
		}, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "username already exists")
	})
}

func TestBuyAndSellSubmit(t *testing.T) {
	t.Run("SuccessfulBuyRedirectsHome", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)
		ts.svc.On("Buy", mock.Anything, int64(7), "AAPL", int64(10)).Return(nil).Once()

		rec := ts.postForm("/buy", url.Values{"symbol": {"AAPL"}, "shares": {"10"}}, cookie)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		ts.svc.AssertExpectations(t)
	})

	t.Run("UnparsableSharesNeverReachTheService", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)

		for _, shares := range []string{"", "abc", "1.5"} {
			rec := ts.postForm("/buy", url.Values{"symbol": {"AAPL"}, "shares": {shares}}, cookie)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "number of shares must be positive")
		}
		ts.svc.AssertNotCalled(t, "Buy", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InsufficientFundsRendersApology", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)
		ts.svc.On("Buy", mock.Anything, int64(7), "AAPL", int64(1000)).
			Return(util.ErrInsufficientFunds).Once()

		rec := ts.postForm("/buy", url.Values{"symbol": {"AAPL"}, "shares": {"1000"}}, cookie)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "not enough money to buy stocks")
	})

	t.Run("SuccessfulSellRedirectsHome", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)
		ts.svc.On("Sell", mock.Anything, int64(7), "AAPL", int64(4)).Return(nil).Once()

		rec := ts.postForm("/sell", url.Values{"symbol": {"AAPL"}, "shares": {"4"}}, cookie)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/", rec.Header().Get("Location"))
		ts.svc.AssertExpectations(t)
	})

	t.Run("InsufficientSharesRendersApology", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)
		ts.svc.On("Sell", mock.Anything, int64(7), "AAPL", int64(99)).
			Return(util.ErrInsufficientShares).Once()

		rec := ts.postForm("/sell", url.Values{"symbol": {"AAPL"}, "shares": {"99"}}, cookie)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "not enough shares to sell")
	})
}

func TestQuoteSubmit(t *testing.T) {
	t.Run("KnownSymbolRendersQuote", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)
		ts.svc.On("Quote", mock.Anything, "AAPL").Return(&quote.Quote{
			Symbol: "AAPL",
			Name:   "Apple Inc.",
			Price:  decimal.RequireFromString("187.50"),
		}, nil).Once()

		rec := ts.postForm("/quote", url.Values{"symbol": {"AAPL"}}, cookie)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Apple Inc.")
		assert.Contains(t, rec.Body.String(), "$187.50")
	})

	t.Run("UnknownSymbolRendersApology", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)
		ts.svc.On("Quote", mock.Anything, "ZZZZ").Return(nil, util.ErrInvalidSymbol).Once()

		rec := ts.postForm("/quote", url.Values{"symbol": {"ZZZZ"}}, cookie)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid stock symbol")
	})
}

func TestAddCashSubmit(t *testing.T) {
	t.Run("SuccessRendersConfirmationNotRedirect", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)
		ts.svc.On("AddCash", mock.Anything, int64(7), int64(5000)).Return(nil).Once()

		rec := ts.postForm("/add-cash", url.Values{"amount": {"5000"}}, cookie)

		// Deliberately a message page, not a redirect home.
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.Contains(t, rec.Body.String(), "cash is loaded in the account")
		ts.svc.AssertExpectations(t)
	})

	t.Run("OverCapRendersApology", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)
		ts.svc.On("AddCash", mock.Anything, int64(7), int64(10001)).
			Return(util.ErrAmountTooLarge).Once()

		rec := ts.postForm("/add-cash", url.Values{"amount": {"10001"}}, cookie)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "cannot add more than $10,000 at once")
	})

	t.Run("UnparsableAmountNeverReachesTheService", func(t *testing.T) {
		ts := newTestServer(t)
		cookie := ts.loginAs(t, 7)

		rec := ts.postForm("/add-cash", url.Values{"amount": {"lots"}}, cookie)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "enter a positive amount")
		ts.svc.AssertNotCalled(t, "AddCash", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestHistoryPage(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.loginAs(t, 7)
	ts.svc.On("History", mock.Anything, int64(7)).Return([]domain.Trade{
		{ID: 1, UserID: 7, Symbol: "AAPL", Shares: 10, Price: decimal.RequireFromString("100.00")},
		{ID: 2, UserID: 7, Symbol: "AAPL", Shares: -10, Price: decimal.RequireFromString("100.00")},
	}, nil).Once()

	rec := ts.get("/history", cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "AAPL")
	assert.Contains(t, body, "-10")
	ts.svc.AssertExpectations(t)
}
