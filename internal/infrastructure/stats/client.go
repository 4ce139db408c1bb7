package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appreport "github.com/rentworks/backend/internal/application/report"
	"github.com/rentworks/backend/internal/domain/report"
	"github.com/rentworks/backend/internal/infrastructure/config"
)

// Client fetches customer statistics from the accounting backend's aggregate
// endpoint. Transport failures and non-200 responses are returned as errors;
// the caller treats them as a signal to recompute locally.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a stats client. Returns nil when no base URL is
// configured, which disables the preferred path entirely.
func NewClient(cfg *config.StatsConfig, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		return nil
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

// FetchCustomerStats requests the aggregate statistics for one customer
func (c *Client) FetchCustomerStats(ctx context.Context, customerID uuid.UUID, period report.Period) (*report.BackendStats, error) {
	endpoint := fmt.Sprintf("%s/customers/%s/stats", c.baseURL, customerID)

	query := url.Values{}
	if period.Start != nil {
		query.Set("start", period.Start.Format(time.RFC3339))
	}
	if period.End != nil {
		query.Set("end", period.End.Format(time.RFC3339))
	}
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stats request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats endpoint returned status %d", resp.StatusCode)
	}

	var stats report.BackendStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats response: %w", err)
	}
	return &stats, nil
}

// Ensure Client implements StatsProvider
var _ appreport.StatsProvider = (*Client)(nil)
