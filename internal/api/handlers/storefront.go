package handlers

import (
	"net/http"
	"strings"

	"duka/internal/catalog"
	"duka/internal/logger"

	"github.com/gin-gonic/gin"
)

// StorefrontHandler serves the read-only endpoints the shop pages render
// from. Everything comes out of the catalog snapshot, not the raw tables.
type StorefrontHandler struct {
	catalog *catalog.Service
	logger  *logger.Logger
}

func NewStorefrontHandler(catalogService *catalog.Service, logger *logger.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		catalog: catalogService,
		logger:  logger,
	}
}

// Home returns the landing page payload: the three curated shelves.
func (h *StorefrontHandler) Home(c *gin.Context) {
	snap, err := h.catalog.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("storefront: snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"featured": snap.Shelf(snap.Featured),
			"trending": snap.Shelf(snap.Trending),
			"deals":    snap.Shelf(snap.Deals),
		},
	})
}

// Products lists snapshot products with optional category and search filters.
func (h *StorefrontHandler) Products(c *gin.Context) {
	snap, err := h.catalog.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("storefront: snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	categorySlug := c.Query("category")
	search := strings.ToLower(c.Query("search"))

	results := make([]catalog.ProductSummary, 0, len(snap.Products))
	for _, p := range snap.Products {
		if categorySlug != "" && p.CategorySlug != categorySlug {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		results = append(results, p)
	}

	c.JSON(http.StatusOK, gin.H{"data": results})
}

// Product returns one snapshot entry by slug.
func (h *StorefrontHandler) Product(c *gin.Context) {
	snap, err := h.catalog.Snapshot(c.Request.Context())
	if err != nil {
		h.logger.Error("storefront: snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load catalog"})
		return
	}

	slug := c.Param("slug")
	p, ok := snap.BySlug[slug]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": p})
}
