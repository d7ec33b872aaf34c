package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/shoefinder/backend/internal/domain"
)

// Defaults used when ClientConfig leaves a field zero
const (
	DefaultProductsPath = "/products.json"
	DefaultPageLimit    = 250
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRetries   = 3
	DefaultPerMinute    = 60
)

// maxCatalogBytes bounds the catalog body read into memory
const maxCatalogBytes = 32 << 20

// ClientConfig holds configuration for the storefront client
type ClientConfig struct {
	BaseURL      string
	ProductsPath string
	PageLimit    int
	Timeout      time.Duration
	MaxRetries   int
	PerMinute    int
}

// Client fetches the product listing of a Shopify storefront
type Client struct {
	httpClient   *http.Client
	baseURL      string
	productsPath string
	pageLimit    int
	maxRetries   int
	rateLimiter  *rate.Limiter
	debug        bool
}

// NewClient creates a new storefront client
func NewClient(config ClientConfig) *Client {
	if config.ProductsPath == "" {
		config.ProductsPath = DefaultProductsPath
	}
	if config.PageLimit <= 0 {
		config.PageLimit = DefaultPageLimit
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxRetries <= 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.PerMinute <= 0 {
		config.PerMinute = DefaultPerMinute
	}

	// rate.Limit is requests per second
	limiter := rate.NewLimiter(rate.Limit(float64(config.PerMinute)/60), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		baseURL:      strings.TrimRight(config.BaseURL, "/"),
		productsPath: config.ProductsPath,
		pageLimit:    config.PageLimit,
		maxRetries:   config.MaxRetries,
		rateLimiter:  limiter,
	}
}

// SetDebug enables or disables debug logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt (1-based)
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// isRetryable reports whether a status code is worth another attempt
func isRetryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// productsURL builds the listing URL
func (c *Client) productsURL() string {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(c.pageLimit))
	return fmt.Sprintf("%s%s?%s", c.baseURL, c.productsPath, params.Encode())
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "ShoeFinder/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogFetch, err)
	}

	return resp, nil
}

// FetchAll retrieves the full product listing. Any non-success status or
// transport failure is reported as domain.ErrCatalogFetch.
func (c *Client) FetchAll(ctx context.Context) ([]domain.CatalogProduct, error) {
	reqURL := c.productsURL()
	if c.debug {
		log.Printf("[CATALOG] FetchAll %s", reqURL)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, exponentialBackoff(attempt-1)); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrCatalogFetch, err)
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrCatalogFetch, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[CATALOG] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if ctx.Err() != nil {
				break
			}
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			log.Printf("[CATALOG] Upstream error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrCatalogFetch, resp.StatusCode)
			if !isRetryable(resp.StatusCode) {
				return nil, lastErr
			}
			continue
		}

		if readErr != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrCatalogFetch, readErr)
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err != nil {
			log.Printf("[CATALOG] JSON decode error: %v", err)
			return nil, fmt.Errorf("%w: %w: failed to decode response: %v", domain.ErrCatalogFetch, domain.ErrMalformedCatalog, err)
		}

		products := MapProducts(raw["products"])
		if c.debug {
			log.Printf("[CATALOG] Fetched %d products", len(products))
		}
		return products, nil
	}

	log.Printf("[CATALOG] All %d attempts failed", c.maxRetries)
	return nil, lastErr
}

// sleep waits for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
