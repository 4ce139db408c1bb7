package stats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rentworks/backend/internal/domain/report"
	"github.com/rentworks/backend/internal/infrastructure/config"
)

func newTestClient(baseURL string) *Client {
	return NewClient(&config.StatsConfig{BaseURL: baseURL, Timeout: time.Second}, zap.NewNop())
}

func TestNewClient(t *testing.T) {
	t.Run("returns nil when no base URL is configured", func(t *testing.T) {
		assert.Nil(t, NewClient(&config.StatsConfig{}, zap.NewNop()))
	})

	t.Run("returns a client otherwise", func(t *testing.T) {
		assert.NotNil(t, newTestClient("http://stats.internal"))
	})
}

func TestClient_FetchCustomerStats(t *testing.T) {
	customerID := uuid.New()

	t.Run("decodes the stats payload", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/customers/"+customerID.String()+"/stats", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"walk_in_sales_revenue": "1000",
				"order_sales_revenue": "2000",
				"rental_revenue": "500",
				"total_discounts": "100",
				"customer_due": "750",
				"sales_count": 4
			}`))
		}))
		defer server.Close()

		stats, err := newTestClient(server.URL).FetchCustomerStats(context.Background(), customerID, report.Period{})

		require.NoError(t, err)
		require.NotNil(t, stats.WalkInRevenue)
		assert.True(t, stats.WalkInRevenue.Equal(decimal.NewFromInt(1000)))
		require.NotNil(t, stats.OrderRevenue)
		assert.True(t, stats.OrderRevenue.Equal(decimal.NewFromInt(2000)))
		require.NotNil(t, stats.SalesCount)
		assert.Equal(t, 4, *stats.SalesCount)
		assert.Nil(t, stats.InvoiceCount)
	})

	t.Run("forwards period bounds as query parameters", func(t *testing.T) {
		start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

		var query string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.RawQuery
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchCustomerStats(context.Background(), customerID,
			report.Period{Start: &start, End: &end})

		require.NoError(t, err)
		assert.Contains(t, query, "start=2026-03-01T00%3A00%3A00Z")
		assert.Contains(t, query, "end=2026-03-31T00%3A00%3A00Z")
	})

	t.Run("non-200 responses are errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchCustomerStats(context.Background(), customerID, report.Period{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("transport failures are errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // connection refused from here on

		_, err := newTestClient(server.URL).FetchCustomerStats(context.Background(), customerID, report.Period{})
		assert.Error(t, err)
	})

	t.Run("malformed payloads are errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"walk_in_revenue": `))
		}))
		defer server.Close()

		_, err := newTestClient(server.URL).FetchCustomerStats(context.Background(), customerID, report.Period{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode")
	})
}
