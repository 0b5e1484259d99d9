package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/cryptoedge/cadvi/internal/model"
)

// APIKeyEnv is the environment variable holding the CoinMarketCap key.
const APIKeyEnv = "CMC_API_KEY"

// ErrMissingAPIKey is the configuration error returned when no API key
// is available. Distinct from run failures so the CLI can tell the user
// exactly what to fix.
var ErrMissingAPIKey = errors.New("CoinMarketCap API key is required, set " + APIKeyEnv)

// ClientConfig tunes the CoinMarketCap client.
type ClientConfig struct {
	BaseURL       string
	APIKey        string
	CacheTTL      time.Duration
	RatePerMinute int
	Timeout       time.Duration
}

// Client fetches listings from the CoinMarketCap API. Requests pass a
// rate limiter and a circuit breaker; responses are cached when a cache
// is attached.
type Client struct {
	cfg     ClientConfig
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	cache   Cache
}

// NewClient builds a client. The API key falls back to CMC_API_KEY;
// a missing key is a configuration error, not a run failure. The cache
// may be nil.
func NewClient(cfg ClientConfig, cache Cache) (*Client, error) {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(APIKeyEnv)
	}
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://pro-api.coinmarketcap.com/v1"
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = 30
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "coinmarketcap",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("Circuit breaker state change")
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RatePerMinute)/60), 2),
		breaker: breaker,
		cache:   cache,
	}, nil
}

// Listings fetches the latest listings sorted by market cap and reshapes
// them into asset records.
func (c *Client) Listings(ctx context.Context, limit int, convert string) ([]model.AssetRecord, error) {
	if limit <= 0 {
		limit = 200
	}
	if convert == "" {
		convert = "USD"
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("convert", convert)
	params.Set("sort", "market_cap")

	key := fmt.Sprintf("cadvi:listings:%d:%s", limit, convert)
	body, err := c.fetch(ctx, "/cryptocurrency/listings/latest", params, key)
	if err != nil {
		return nil, err
	}

	var resp listingsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode listings response: %w", err)
	}
	if resp.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("listings request rejected: %s (code %d)",
			resp.Status.ErrorMessage, resp.Status.ErrorCode)
	}

	return recordsFromListings(resp.Data, convert), nil
}

// Quotes fetches the latest quotes for specific symbols.
func (c *Client) Quotes(ctx context.Context, symbols []string, convert string) ([]model.AssetRecord, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	if convert == "" {
		convert = "USD"
	}

	params := url.Values{}
	params.Set("symbol", strings.Join(symbols, ","))
	params.Set("convert", convert)

	key := fmt.Sprintf("cadvi:quotes:%s:%s", strings.Join(symbols, ","), convert)
	body, err := c.fetch(ctx, "/cryptocurrency/quotes/latest", params, key)
	if err != nil {
		return nil, err
	}

	var resp quotesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode quotes response: %w", err)
	}
	if resp.Status.ErrorCode != 0 {
		return nil, fmt.Errorf("quotes request rejected: %s (code %d)",
			resp.Status.ErrorMessage, resp.Status.ErrorCode)
	}

	records := make([]model.AssetRecord, 0, len(resp.Data))
	for _, listing := range resp.Data {
		if rec, ok := toAssetRecord(listing, convert); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

// fetch runs one GET through cache, limiter and breaker.
func (c *Client) fetch(ctx context.Context, path string, params url.Values, cacheKey string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(ctx, cacheKey); ok {
			log.Debug().Str("key", cacheKey).Msg("Serving market data from cache")
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, path, params)
	})
	if err != nil {
		return nil, err
	}
	body := result.([]byte)

	if c.cache != nil {
		c.cache.Set(ctx, cacheKey, body, c.cfg.CacheTTL)
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := c.cfg.BaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("X-CMC_PRO_API_KEY", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market data request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Market data request completed")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("market data request returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}
	return body, nil
}

func recordsFromListings(listings []Listing, convert string) []model.AssetRecord {
	records := make([]model.AssetRecord, 0, len(listings))
	for _, listing := range listings {
		if rec, ok := toAssetRecord(listing, convert); ok {
			records = append(records, rec)
		}
	}
	return records
}

// LoadListingsFile reads a saved raw listings payload from disk, for
// offline scans and fixtures.
func LoadListingsFile(path string, convert string) ([]model.AssetRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read listings file: %w", err)
	}
	var resp listingsResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode listings file %s: %w", path, err)
	}
	if convert == "" {
		convert = "USD"
	}
	return recordsFromListings(resp.Data, convert), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
