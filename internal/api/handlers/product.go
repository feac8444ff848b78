package handlers

import (
	"net/http"
	"strconv"

	"duka/internal/catalog"
	"duka/internal/events"
	"duka/internal/logger"
	"duka/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductHandler struct {
	db        *gorm.DB
	logger    *logger.Logger
	publisher *events.Publisher
	catalog   *catalog.Service
}

func NewProductHandler(db *gorm.DB, logger *logger.Logger, publisher *events.Publisher, catalogService *catalog.Service) *ProductHandler {
	return &ProductHandler{
		db:        db,
		logger:    logger,
		publisher: publisher,
		catalog:   catalogService,
	}
}

func (h *ProductHandler) List(c *gin.Context) {
	var products []models.Product

	// Pagination
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	// Filters
	status := c.Query("status")
	categoryID := c.Query("category_id")
	search := c.Query("search")

	query := h.db.Model(&models.Product{})

	if status != "" {
		query = query.Where("status = ?", status)
	}

	if categoryID != "" {
		query = query.Where(
			"category_id = ? OR id IN (SELECT product_id FROM product_categories WHERE category_id = ?)",
			categoryID, categoryID,
		)
	}

	if search != "" {
		query = query.Where("name ILIKE ? OR slug ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": products,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *ProductHandler) Get(c *gin.Context) {
	idOrSlug := c.Param("id")

	var product models.Product
	if err := h.db.First(&product, "id = ? OR slug = ?", idOrSlug, idOrSlug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *ProductHandler) Create(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	h.invalidate(c, events.TypeProductCreated, product.ID)
	c.JSON(http.StatusCreated, gin.H{"data": product})
}

func (h *ProductHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var product models.Product
	if err := h.db.First(&product, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
		return
	}

	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.ID = id

	if err := h.db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
		return
	}

	h.invalidate(c, events.TypeProductUpdated, product.ID)
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
		return
	}
	h.db.Delete(&models.ProductCategory{}, "product_id = ?", id)

	h.invalidate(c, events.TypeProductDeleted, id)
	c.JSON(http.StatusNoContent, nil)
}

// SetCategories replaces the many-to-many category assignments of a
// product. Row order in the payload becomes the stored position order,
// which the feed uses when resolving the display category.
func (h *ProductHandler) SetCategories(c *gin.Context) {
	id := c.Param("id")

	var payload struct {
		CategoryIDs []string `json:"category_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.ProductCategory{}, "product_id = ?", id).Error; err != nil {
			return err
		}
		for i, catID := range payload.CategoryIDs {
			link := models.ProductCategory{ProductID: id, CategoryID: catID, Position: i}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product categories"})
		return
	}

	h.invalidate(c, events.TypeProductUpdated, id)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"product_id": id, "category_ids": payload.CategoryIDs}})
}

func (h *ProductHandler) invalidate(c *gin.Context, eventType, productID string) {
	h.catalog.Invalidate()
	if h.publisher != nil {
		h.publisher.Publish(c.Request.Context(), eventType, productID)
	}
}
