package usecase

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shoefinder/backend/internal/domain"
)

// Search outcomes reported to the observer
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

const seePrice = "See price"

// SearchObserver records search outcomes (metrics)
type SearchObserver interface {
	ObserveSearch(outcome string, duration time.Duration)
}

// ShoeSearchServiceConfig holds configuration for the shoe search service
type ShoeSearchServiceConfig struct {
	StoreURL           string
	MaxResults         int
	ImageConcurrency   int
	EnableDebugLogging bool
}

// ShoeSearchService filters the cached catalog and shapes product cards
type ShoeSearchService struct {
	catalog          domain.CatalogRepository
	images           domain.ImageFetcher
	interpreter      *QueryInterpreter
	observer         SearchObserver
	storeURL         string
	maxResults       int
	imageConcurrency int
	debug            bool
}

// NewShoeSearchService creates a new shoe search service with dependencies.
// images and observer may be nil.
func NewShoeSearchService(
	catalog domain.CatalogRepository,
	images domain.ImageFetcher,
	observer SearchObserver,
	config ShoeSearchServiceConfig,
) *ShoeSearchService {
	maxResults := config.MaxResults
	if maxResults <= 0 || maxResults > domain.MaxShoeResults {
		maxResults = domain.MaxShoeResults
	}

	imageConcurrency := config.ImageConcurrency
	if imageConcurrency <= 0 {
		imageConcurrency = maxResults
	}

	return &ShoeSearchService{
		catalog:          catalog,
		images:           images,
		interpreter:      NewQueryInterpreter(config.EnableDebugLogging),
		observer:         observer,
		storeURL:         strings.TrimRight(config.StoreURL, "/"),
		maxResults:       maxResults,
		imageConcurrency: imageConcurrency,
		debug:            config.EnableDebugLogging,
	}
}

// Search runs a shoe search. It never returns an error: failures are carried
// in the response's Error field with no shoes and a zero total.
// Flow: interpret -> catalog (cached) -> term/gender/size filter -> truncate -> cards
func (s *ShoeSearchService) Search(ctx context.Context, request *domain.SearchRequest) (resp *domain.SearchResponse) {
	start := time.Now()
	if request == nil {
		request = &domain.SearchRequest{}
	}

	query := s.interpreter.Interpret(request.Query, request.Size)
	gender := NormalizeGender(request.Gender)

	resp = &domain.SearchResponse{
		Query:  request.Query,
		Size:   query.Size,
		Gender: gender,
		Shoes:  []domain.ShoeResult{},
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[SEARCH] Recovered from panic for query %q: %v", request.Query, r)
			fail(resp, fmt.Errorf("internal error: %v", r))
		}
		s.observe(resp, time.Since(start))
	}()

	products, err := s.catalog.Products(ctx)
	if err != nil {
		log.Printf("[SEARCH] Catalog unavailable for query %q: %v", request.Query, err)
		fail(resp, err)
		return resp
	}

	matches := FilterProducts(products, query, gender)
	resp.TotalFound = len(matches)
	if len(matches) > s.maxResults {
		matches = matches[:s.maxResults]
	}

	resp.Shoes = s.buildResults(ctx, matches, query.Size)

	if s.debug {
		log.Printf("[SEARCH] %q terms=%q size=%q gender=%q -> %d found, %d returned in %s",
			request.Query, query.Terms, query.Size, gender, resp.TotalFound, len(resp.Shoes), time.Since(start))
	}

	return resp
}

// FilterProducts keeps products matching every term, the gender and the size, in catalog order
func FilterProducts(products []domain.CatalogProduct, query domain.InterpretedQuery, gender string) []domain.CatalogProduct {
	matcher := NewTermMatcher(query.Terms)

	var matches []domain.CatalogProduct
	for _, p := range products {
		if !matcher.Matches(p.Title) {
			continue
		}
		if !matchesGender(p.Title, gender) {
			continue
		}
		if query.Size != "" && !hasAvailableSize(p, query.Size) {
			continue
		}
		matches = append(matches, p)
	}
	return matches
}

// buildResults shapes one card per product, fetching thumbnails concurrently.
// A failed thumbnail leaves that card's image empty and nothing else.
func (s *ShoeSearchService) buildResults(ctx context.Context, products []domain.CatalogProduct, size string) []domain.ShoeResult {
	results := make([]domain.ShoeResult, len(products))

	var g errgroup.Group
	g.SetLimit(s.imageConcurrency)

	for i, p := range products {
		results[i] = domain.ShoeResult{
			Name:   p.Title,
			Price:  formatPrice(pickVariant(p, size)),
			URL:    s.productURL(p.Handle, size),
			Size:   size,
			Handle: p.Handle,
		}

		g.Go(func() error {
			results[i].Image = s.thumbnail(ctx, p)
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// thumbnail returns the data URI of the product's first image or ""
func (s *ShoeSearchService) thumbnail(ctx context.Context, product domain.CatalogProduct) string {
	if s.images == nil || len(product.Images) == 0 || product.Images[0] == "" {
		return ""
	}

	data, err := s.images.FetchDataURI(ctx, product.Images[0])
	if err != nil {
		log.Printf("[SEARCH] Image unavailable for %s: %v", product.Handle, err)
		return ""
	}
	return data
}

// productURL links to the product page, preselecting the size when known
func (s *ShoeSearchService) productURL(handle, size string) string {
	link := s.storeURL + "/products/" + url.PathEscape(handle)
	if size != "" {
		link += "?" + url.Values{"size": {size}}.Encode()
	}
	return link
}

func (s *ShoeSearchService) observe(resp *domain.SearchResponse, d time.Duration) {
	if s.observer == nil {
		return
	}
	outcome := OutcomeOK
	if resp.Failed() {
		outcome = OutcomeError
	}
	s.observer.ObserveSearch(outcome, d)
}

// pickVariant prefers the available variant in the requested size, then the first variant
func pickVariant(product domain.CatalogProduct, size string) *domain.CatalogVariant {
	if size != "" {
		if v := sizeVariant(product, size); v != nil {
			return v
		}
	}
	if len(product.Variants) == 0 {
		return nil
	}
	return &product.Variants[0]
}

// formatPrice renders a whole-dollar price such as "$95"
func formatPrice(variant *domain.CatalogVariant) string {
	if variant == nil || variant.Price == nil {
		return seePrice
	}
	return fmt.Sprintf("$%d", int64(math.Round(*variant.Price)))
}

// fail turns resp into an error response
func fail(resp *domain.SearchResponse, err error) {
	msg := err.Error()
	resp.Shoes = []domain.ShoeResult{}
	resp.TotalFound = 0
	resp.Error = &msg
}
