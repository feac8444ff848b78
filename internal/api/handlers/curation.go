package handlers

import (
	"net/http"

	"duka/internal/catalog"
	"duka/internal/events"
	"duka/internal/logger"
	"duka/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Shelf names accepted by the curation endpoints.
const (
	ShelfFeatured = "featured"
	ShelfTrending = "trending"
	ShelfDeals    = "deals"
)

var shelfColumns = map[string][2]string{
	ShelfFeatured: {"featured", "featured_position"},
	ShelfTrending: {"trending", "trending_position"},
	ShelfDeals:    {"deal", "deal_position"},
}

// CurationHandler backs the admin drag-and-drop ordering of the featured,
// trending and deals shelves.
type CurationHandler struct {
	db        *gorm.DB
	logger    *logger.Logger
	publisher *events.Publisher
	catalog   *catalog.Service
}

func NewCurationHandler(db *gorm.DB, logger *logger.Logger, publisher *events.Publisher, catalogService *catalog.Service) *CurationHandler {
	return &CurationHandler{
		db:        db,
		logger:    logger,
		publisher: publisher,
		catalog:   catalogService,
	}
}

// Reorder replaces a shelf's membership and ordering in one shot: ids in
// the payload get the flag and their index as position, everything else
// loses the flag.
func (h *CurationHandler) Reorder(c *gin.Context) {
	shelf := c.Param("shelf")
	columns, ok := shelfColumns[shelf]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown shelf: " + shelf})
		return
	}
	flagColumn, positionColumn := columns[0], columns[1]

	var payload struct {
		ProductIDs []string `json:"product_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).
			Where(flagColumn+" = ?", true).
			Updates(map[string]interface{}{flagColumn: false, positionColumn: 0}).Error; err != nil {
			return err
		}
		for i, id := range payload.ProductIDs {
			if err := tx.Model(&models.Product{}).
				Where("id = ?", id).
				Updates(map[string]interface{}{flagColumn: true, positionColumn: i}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		h.logger.Error("curation: reorder %s failed: %v", shelf, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shelf"})
		return
	}

	h.catalog.Invalidate()
	if h.publisher != nil {
		h.publisher.Publish(c.Request.Context(), events.TypeCurationChanged, shelf)
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"shelf": shelf, "product_ids": payload.ProductIDs}})
}
