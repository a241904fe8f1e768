package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/supptrack/backend/internal/domain"
	"github.com/supptrack/backend/internal/usecase"
)

const productsCacheKey = "products:all"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	repo       domain.CatalogRepository
	reconciler *usecase.Reconciler
	aggregator *usecase.PriceAggregator
	cache      domain.CacheRepository
	feed       domain.VendorFeed
}

// NewHandler creates a new HTTP handler
func NewHandler(
	repo domain.CatalogRepository,
	reconciler *usecase.Reconciler,
	aggregator *usecase.PriceAggregator,
	cache domain.CacheRepository,
	feed domain.VendorFeed,
) *Handler {
	return &Handler{
		repo:       repo,
		reconciler: reconciler,
		aggregator: aggregator,
		cache:      cache,
		feed:       feed,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "supptrack-backend",
		"version": "1.0.0",
	})
}

// IngestListings reconciles a batch of incoming vendor listings against
// the canonical catalog.
func (h *Handler) IngestListings(c *gin.Context) {
	var batch []domain.IncomingListing
	if err := c.ShouldBindJSON(&batch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing batch: " + err.Error()})
		return
	}
	if len(batch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty listing batch"})
		return
	}

	report, err := h.reconciler.Reconcile(c.Request.Context(), batch)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// New canonical rows may have landed; cached product reads are stale.
	h.cache.Clear()

	c.JSON(http.StatusCreated, report)
}

// AggregatePrices collapses listing variants to the lowest observed price
// per (product name, vendor) group.
func (h *Handler) AggregatePrices(c *gin.Context) {
	var updates []domain.PriceUpdate
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price batch: " + err.Error()})
		return
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty price batch"})
		return
	}

	outcomes := h.aggregator.AggregateMinimumPrices(c.Request.Context(), updates)
	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

// syncRequest is the body for a vendor feed sync
type syncRequest struct {
	FeedURL string `json:"feedUrl" binding:"required"`
}

// SyncVendor pulls a vendor's listing feed, reconciles the batch, then
// aggregates its prices so variants settle on the lowest observed price.
func (h *Handler) SyncVendor(c *gin.Context) {
	vendorID, err := strconv.ParseInt(c.Param("vendorId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return
	}

	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "feedUrl is required"})
		return
	}

	listings, err := h.feed.FetchListings(c.Request.Context(), req.FeedURL, vendorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	report, err := h.reconciler.Reconcile(c.Request.Context(), listings)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Clear()

	updates := make([]domain.PriceUpdate, 0, len(report.Results))
	for _, r := range report.Results {
		updates = append(updates, domain.PriceUpdate{
			ListedName: r.ListedName,
			VendorID:   r.VendorID,
			Price:      r.Price,
		})
	}
	outcomes := h.aggregator.AggregateMinimumPrices(c.Request.Context(), updates)

	c.JSON(http.StatusOK, gin.H{
		"reconciled": report,
		"prices":     outcomes,
	})
}

// ListProducts returns the full canonical catalog, served from cache when
// fresh.
func (h *Handler) ListProducts(c *gin.Context) {
	if cached, err := h.cache.Get(c.Request.Context(), productsCacheKey); err == nil {
		if products, ok := cached.([]domain.CanonicalProduct); ok {
			c.JSON(http.StatusOK, gin.H{"products": products, "cached": true})
			return
		}
	}

	products, err := h.repo.GetCanonicalProducts(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.cache.Set(c.Request.Context(), productsCacheKey, products); err != nil {
		zap.L().Warn("failed to cache products", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// SearchProducts runs a substring search over canonical product names.
func (h *Handler) SearchProducts(c *gin.Context) {
	term := c.Query("q")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query parameter q is required"})
		return
	}

	products, err := h.repo.SearchCanonicalProducts(c.Request.Context(), term)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

// ListListings returns every vendor listing link.
func (h *Handler) ListListings(c *gin.Context) {
	listings, err := h.repo.ListListings(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

// GetListing returns one vendor's link for a canonical product.
func (h *Handler) GetListing(c *gin.Context) {
	productID, vendorID, ok := listingIDs(c)
	if !ok {
		return
	}

	listing, err := h.repo.GetListing(c.Request.Context(), productID, vendorID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, listing)
}

// updateListingRequest is the body for a full-detail listing update
type updateListingRequest struct {
	Price float64 `json:"price" binding:"required"`
	Image string  `json:"image"`
	Link  string  `json:"link"`
}

// UpdateListing replaces a link's price, image and link URL.
func (h *Handler) UpdateListing(c *gin.Context) {
	productID, vendorID, ok := listingIDs(c)
	if !ok {
		return
	}

	var req updateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid listing update: " + err.Error()})
		return
	}

	if err := h.repo.UpdateListing(c.Request.Context(), productID, vendorID, req.Price, req.Image, req.Link); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"productId": productID,
		"vendorId":  vendorID,
		"price":     req.Price,
		"image":     req.Image,
		"link":      req.Link,
	})
}

// DeleteListing removes a vendor's link for a canonical product.
func (h *Handler) DeleteListing(c *gin.Context) {
	productID, vendorID, ok := listingIDs(c)
	if !ok {
		return
	}

	if err := h.repo.DeleteListing(c.Request.Context(), productID, vendorID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// listingIDs parses the product/vendor path params, writing a 400 on
// failure.
func listingIDs(c *gin.Context) (productID, vendorID int64, ok bool) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return 0, 0, false
	}
	vendorID, err = strconv.ParseInt(c.Param("vendorId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid vendor id"})
		return 0, 0, false
	}
	return productID, vendorID, true
}

// respondError maps domain errors to HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound), errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidListing), errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrFeedUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		zap.L().Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
