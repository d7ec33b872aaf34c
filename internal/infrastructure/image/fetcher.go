package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shoefinder/backend/internal/domain"
)

// Defaults used when Config leaves a field zero
const (
	DefaultWidth       = 200
	DefaultFormat      = "jpg"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxBytes    = 2 << 20
	DefaultTTL         = 24 * time.Hour
	DefaultContentType = "image/jpeg"
)

const cacheKeyPrefix = "image:"

// Observer records image fetch outcomes (metrics)
type Observer interface {
	ObserveImage(outcome string)
}

// Image fetch outcomes
const (
	OutcomeHit   = "hit"
	OutcomeFetch = "fetched"
	OutcomeError = "error"
)

// Config holds thumbnail fetch configuration
type Config struct {
	Width    int
	Format   string
	Timeout  time.Duration
	MaxBytes int64
	TTL      time.Duration
}

// Fetcher downloads small product thumbnails and returns them as data URIs.
// Results are memoized in cache when one is given.
type Fetcher struct {
	httpClient *http.Client
	cache      domain.CacheRepository
	observer   Observer
	width      int
	format     string
	maxBytes   int64
	ttl        time.Duration
}

// NewFetcher creates a new thumbnail fetcher. cache and observer may be nil.
func NewFetcher(config Config, cache domain.CacheRepository, observer Observer) *Fetcher {
	if config.Width <= 0 {
		config.Width = DefaultWidth
	}
	if config.Format == "" {
		config.Format = DefaultFormat
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxBytes <= 0 {
		config.MaxBytes = DefaultMaxBytes
	}
	if config.TTL <= 0 {
		config.TTL = DefaultTTL
	}

	return &Fetcher{
		httpClient: &http.Client{Timeout: config.Timeout},
		cache:      cache,
		observer:   observer,
		width:      config.Width,
		format:     config.Format,
		maxBytes:   config.MaxBytes,
		ttl:        config.TTL,
	}
}

// FetchDataURI returns src as a data URI. Every failure wraps domain.ErrImageFetch.
func (f *Fetcher) FetchDataURI(ctx context.Context, src string) (string, error) {
	key := cacheKeyPrefix + src

	if f.cache != nil {
		cached, err := f.cache.Get(ctx, key)
		switch {
		case err == nil && strings.HasPrefix(cached, "data:"):
			f.observe(OutcomeHit)
			return cached, nil
		case err == nil:
			// Not a data URI: evict and refetch
			log.Printf("[IMAGE] Evicting malformed cache entry for %s", src)
			if err := f.cache.Delete(ctx, key); err != nil {
				log.Printf("[IMAGE] Cache delete error for %s: %v", src, err)
			}
		case !errors.Is(err, domain.ErrCacheMiss):
			log.Printf("[IMAGE] Cache get error for %s: %v", src, err)
		}
	}

	dataURI, err := f.fetch(ctx, src)
	if err != nil {
		f.observe(OutcomeError)
		return "", err
	}
	f.observe(OutcomeFetch)

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, dataURI, f.ttl); err != nil {
			log.Printf("[IMAGE] Cache set error for %s: %v", src, err)
		}
	}

	return dataURI, nil
}

func (f *Fetcher) fetch(ctx context.Context, src string) (string, error) {
	reqURL, err := f.thumbnailURL(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", domain.ErrImageFetch, err)
	}
	req.Header.Set("User-Agent", "ShoeFinder/1.0")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrImageFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d", domain.ErrImageFetch, resp.StatusCode)
	}

	// One extra byte tells an oversized body apart from one that fits exactly.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", domain.ErrImageFetch, err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("%w: body exceeds %d bytes", domain.ErrImageFetch, f.maxBytes)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("%w: empty body", domain.ErrImageFetch)
	}

	return fmt.Sprintf("data:%s;base64,%s", contentType(resp.Header.Get("Content-Type")), base64.StdEncoding.EncodeToString(body)), nil
}

// thumbnailURL adds the width and format hints to src, keeping its own query
func (f *Fetcher) thumbnailURL(src string) (string, error) {
	u, err := url.Parse(src)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" {
		// Storefront CDNs hand out protocol-relative references
		u.Scheme = "https"
	}
	if u.Host == "" {
		return "", fmt.Errorf("image reference %q has no host", src)
	}

	q := u.Query()
	q.Set("width", strconv.Itoa(f.width))
	q.Set("format", f.format)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// contentType returns the media type of header, or image/jpeg when absent
func contentType(header string) string {
	if header == "" {
		return DefaultContentType
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || mediaType == "" {
		return DefaultContentType
	}
	return mediaType
}

func (f *Fetcher) observe(outcome string) {
	if f.observer != nil {
		f.observer.ObserveImage(outcome)
	}
}
