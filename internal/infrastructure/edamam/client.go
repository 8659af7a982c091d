package edamam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/caltrack/backend/internal/domain"
)

// DefaultBaseURL is the public Edamam API host
const DefaultBaseURL = "https://api.edamam.com"

// maxErrorBody caps how much of a failed response body is logged
const maxErrorBody = 512

// ClientConfig holds the Edamam credentials and transport settings
type ClientConfig struct {
	AppID   string
	AppKey  string
	BaseURL string
	Timeout time.Duration
	// RequestsPerMinute bounds outgoing calls. Zero means 10, the free-tier quota.
	RequestsPerMinute int
}

// Client handles communication with the Edamam Recipe Search API
type Client struct {
	httpClient  *http.Client
	appID       string
	appKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	debug       bool
}

// NewClient creates a new Edamam API client
func NewClient(cfg ClientConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	perMinute := cfg.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 10
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		appID:       cfg.AppID,
		appKey:      cfg.AppKey,
		baseURL:     cfg.BaseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60), perMinute),
		logger:      logger.Named("edamam"),
	}
}

// SetDebug enables request/response logging
func (c *Client) SetDebug(enabled bool) {
	c.debug = enabled
}

// Configured reports whether credentials are present
func (c *Client) Configured() bool {
	return c.appID != "" && c.appKey != ""
}

// SearchRecipes queries the recipe search endpoint. There is no retry: a
// failed call is reported to the caller as is.
func (c *Client) SearchRecipes(ctx context.Context, query string) (*domain.EdamamSearchResponse, error) {
	if !c.Configured() {
		return nil, domain.ErrNutritionAPIUnavailable
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrNutritionAPIFailure, err)
	}

	params := url.Values{}
	params.Set("type", "public")
	params.Set("q", query)
	params.Set("app_id", c.appID)
	params.Set("app_key", c.appKey)
	reqURL := fmt.Sprintf("%s/api/recipes/v2?%s", c.baseURL, params.Encode())

	if c.debug {
		c.logger.Debug("searching recipes", zap.String("query", query))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "caltrack/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNutritionAPIFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Warn("api error",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("%w: status %d", domain.ErrNutritionAPIFailure, resp.StatusCode)
	}

	var searchResp domain.EdamamSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if c.debug {
		c.logger.Debug("recipes found",
			zap.String("query", query),
			zap.Int("hits", len(searchResp.Hits)))
	}

	return &searchResp, nil
}
