package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	scalargo "github.com/bdpiprava/scalar-go"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"

	"github.com/shoefinder/backend/internal/domain"
	"github.com/shoefinder/backend/internal/usecase"
)

const (
	serviceName    = "shoefinder-backend"
	serviceVersion = "1.0.0"
)

// ShoeSearcher runs shoe searches
type ShoeSearcher interface {
	Search(ctx context.Context, request *domain.SearchRequest) *domain.SearchResponse
}

// CatalogStatus exposes the current catalog snapshot for health reporting
type CatalogStatus interface {
	Snapshot() *domain.CatalogSnapshot
	Invalidate()
}

// HandlerDeps holds the collaborators of the HTTP handlers. Metrics and MCP
// are optional; their routes are only registered when set.
type HandlerDeps struct {
	Search  ShoeSearcher
	Catalog CatalogStatus
	Metrics http.Handler
	MCP     http.Handler
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search  ShoeSearcher
	catalog CatalogStatus
	metrics http.Handler
	mcp     http.Handler
	now     func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{
		search:  deps.Search,
		catalog: deps.Catalog,
		metrics: deps.Metrics,
		mcp:     deps.MCP,
		now:     time.Now,
	}
}

// HealthCheck returns the health status of the API along with catalog freshness
func (h *Handler) HealthCheck(c *gin.Context) {
	catalog := gin.H{"loaded": false}

	if h.catalog != nil {
		if snap := h.catalog.Snapshot(); snap != nil {
			catalog = gin.H{
				"loaded":     true,
				"products":   len(snap.Products),
				"fetchedAt":  snap.FetchedAt.UTC().Format(time.RFC3339),
				"ageSeconds": int64(snap.Age(h.now()).Seconds()),
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
		"catalog": catalog,
	})
}

// RefreshCatalog marks the cached snapshot stale so the next search refetches it
func (h *Handler) RefreshCatalog(c *gin.Context) {
	if h.catalog == nil {
		writeProblem(c, http.StatusServiceUnavailable, "Catalog not configured")
		return
	}

	h.catalog.Invalidate()
	log.Printf("[CATALOG] Snapshot invalidated on request %s", c.GetHeader("X-Request-ID"))
	c.JSON(http.StatusAccepted, gin.H{"status": "invalidated"})
}

// searchBody is the POST payload; size may be sent as a string or a number
type searchBody struct {
	Query  string `json:"query"`
	Size   any    `json:"size"`
	Gender string `json:"gender"`
}

// SearchShoes handles shoe search requests.
// GET reads query parameters, POST reads a JSON body. Well-formed requests
// always get 200 with the search response, including when the catalog failed.
func (h *Handler) SearchShoes(c *gin.Context) {
	if h.search == nil {
		writeProblem(c, http.StatusServiceUnavailable, "Shoe search service not configured")
		return
	}

	var req domain.SearchRequest
	switch c.Request.Method {
	case http.MethodPost:
		var body searchBody
		if err := c.ShouldBindJSON(&body); err != nil {
			writeBadRequest(c, fmt.Sprintf("Invalid request body: %v", err))
			return
		}
		size, err := cast.ToStringE(body.Size)
		if err != nil {
			writeBadRequest(c, "size must be a string or a number")
			return
		}
		req = domain.SearchRequest{Query: body.Query, Size: size, Gender: body.Gender}
	default:
		if err := c.ShouldBindQuery(&req); err != nil {
			writeBadRequest(c, fmt.Sprintf("Invalid query parameters: %v", err))
			return
		}
	}

	if err := validateGender(req.Gender); err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	resp := h.search.Search(c.Request.Context(), &req)
	if resp.Failed() {
		log.Printf("[HTTP] Search for %q returned error: %s", req.Query, *resp.Error)
	}

	c.JSON(http.StatusOK, resp)
}

// validateGender accepts blank, men or women (any case)
func validateGender(gender string) error {
	if strings.TrimSpace(gender) == "" || usecase.NormalizeGender(gender) != "" {
		return nil
	}
	return fmt.Errorf("%w: gender must be %q or %q, got %q",
		domain.ErrInvalidRequest, domain.GenderMen, domain.GenderWomen, gender)
}

// APIDocs serves the Scalar API reference rendered from the OpenAPI file in specDir
func APIDocs(specDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		html, err := scalargo.NewV2(
			scalargo.WithSpecDir(specDir),
			scalargo.WithMetaDataOpts(
				scalargo.WithTitle("Shoe Finder API"),
			),
		)
		if err != nil {
			log.Printf("[HTTP] API docs unavailable: %v", err)
			writeProblem(c, http.StatusInternalServerError, "API reference unavailable")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	}
}
