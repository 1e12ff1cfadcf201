// internal/quote/client_test.go
package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/internal/util"
)

func TestClientLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))

		switch r.URL.Query().Get("symbol") {
		case "AAPL":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"symbol": "AAPL", "name": "Apple Inc.", "price": "187.50"}`))
		case "NONAME":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"symbol": "NONAME", "price": "12.00"}`))
		case "EMPTY":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"symbol": "EMPTY", "name": "", "price": ""}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	ctx := context.Background()

	t.Run("KnownSymbol", func(t *testing.T) {
		q, err := client.Lookup(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", q.Symbol)
		assert.Equal(t, "Apple Inc.", q.Name)
		assert.True(t, decimal.RequireFromString("187.50").Equal(q.Price))
	})

	t.Run("LowercaseSymbolIsUppercased", func(t *testing.T) {
		q, err := client.Lookup(ctx, "aapl")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", q.Symbol)
	})

	t.Run("MissingNameFallsBackToSymbol", func(t *testing.T) {
		q, err := client.Lookup(ctx, "NONAME")
		require.NoError(t, err)
		assert.Equal(t, "NONAME", q.Name)
	})

	t.Run("EmptyPriceIsUnknownSymbol", func(t *testing.T) {
		_, err := client.Lookup(ctx, "EMPTY")
		assert.ErrorIs(t, err, util.ErrInvalidSymbol)
	})

	t.Run("NotFoundStatusIsUnknownSymbol", func(t *testing.T) {
		_, err := client.Lookup(ctx, "ZZZZ")
		assert.ErrorIs(t, err, util.ErrInvalidSymbol)
	})

	t.Run("BlankSymbol", func(t *testing.T) {
		_, err := client.Lookup(ctx, "   ")
		assert.ErrorIs(t, err, util.ErrInvalidSymbol)
	})
}

func TestClientLookupUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.Lookup(context.Background(), "AAPL")
	require.Error(t, err)
	// Upstream faults are not the user's invalid-symbol error.
	assert.NotErrorIs(t, err, util.ErrInvalidSymbol)
}
