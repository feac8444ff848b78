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

type CategoryHandler struct {
	db        *gorm.DB
	logger    *logger.Logger
	publisher *events.Publisher
	catalog   *catalog.Service
}

func NewCategoryHandler(db *gorm.DB, logger *logger.Logger, publisher *events.Publisher, catalogService *catalog.Service) *CategoryHandler {
	return &CategoryHandler{
		db:        db,
		logger:    logger,
		publisher: publisher,
		catalog:   catalogService,
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Order("position ASC, name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *CategoryHandler) Get(c *gin.Context) {
	idOrSlug := c.Param("id")

	var category models.Category
	if err := h.db.First(&category, "id = ? OR slug = ?", idOrSlug, idOrSlug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var category models.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}

	h.invalidate(c, category.ID)
	c.JSON(http.StatusCreated, gin.H{"data": category})
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	if err := h.db.First(&category, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch category"})
		return
	}

	if err := c.ShouldBindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	category.ID = id

	if err := h.db.Save(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}

	h.invalidate(c, category.ID)
	c.JSON(http.StatusOK, gin.H{"data": category})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.Category{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	h.db.Delete(&models.ProductCategory{}, "category_id = ?", id)

	h.invalidate(c, id)
	c.JSON(http.StatusNoContent, nil)
}

func (h *CategoryHandler) invalidate(c *gin.Context, categoryID string) {
	h.catalog.Invalidate()
	if h.publisher != nil {
		h.publisher.Publish(c.Request.Context(), events.TypeCategoryChanged, categoryID)
	}
}
