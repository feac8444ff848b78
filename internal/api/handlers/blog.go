package handlers

import (
	"net/http"
	"strconv"
	"time"

	"duka/internal/logger"
	"duka/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type BlogHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewBlogHandler(db *gorm.DB, logger *logger.Logger) *BlogHandler {
	return &BlogHandler{
		db:     db,
		logger: logger,
	}
}

func (h *BlogHandler) List(c *gin.Context) {
	var posts []models.BlogPost

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := h.db.Model(&models.BlogPost{})

	// Storefront callers only see published posts; the admin passes all=1.
	if c.Query("all") == "" {
		query = query.Where("published = ?", true)
	}

	var total int64
	query.Count(&total)

	if err := query.Order("published_at DESC, created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": posts,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *BlogHandler) Get(c *gin.Context) {
	idOrSlug := c.Param("id")

	var post models.BlogPost
	if err := h.db.First(&post, "id = ? OR slug = ?", idOrSlug, idOrSlug).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *BlogHandler) Create(c *gin.Context) {
	var post models.BlogPost
	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if post.Published && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": post})
}

func (h *BlogHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var post models.BlogPost
	if err := h.db.First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	wasPublished := post.Published

	if err := c.ShouldBindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post.ID = id

	if post.Published && !wasPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}

	if err := h.db.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": post})
}

func (h *BlogHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.db.Delete(&models.BlogPost{}, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
