package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"duka/internal/logger"
	"duka/internal/metrics"
	"duka/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrderHandler struct {
	db     *gorm.DB
	logger *logger.Logger
}

func NewOrderHandler(db *gorm.DB, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		db:     db,
		logger: logger,
	}
}

type checkoutItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type checkoutRequest struct {
	CustomerName  string         `json:"customer_name" binding:"required"`
	CustomerPhone string         `json:"customer_phone" binding:"required"`
	CustomerEmail *string        `json:"customer_email"`
	Address       *string        `json:"address"`
	City          *string        `json:"city"`
	Notes         *string        `json:"notes"`
	Items         []checkoutItem `json:"items" binding:"required,min=1"`
}

func (h *OrderHandler) List(c *gin.Context) {
	var orders []models.Order

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	status := c.Query("status")

	query := h.db.Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": orders,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (h *OrderHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var order models.Order
	if err := h.db.First(&order, "id = ? OR number = ?", id, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// Create accepts a checkout submission. Prices are resolved server-side
// against the current catalog; the cart only names products and options.
func (h *OrderHandler) Create(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	var subtotal float64
	for _, line := range req.Items {
		var product models.Product
		if err := h.db.First(&product, "id = ?", line.ProductID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product: " + line.ProductID})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart items"})
			return
		}
		if !product.InStock() {
			c.JSON(http.StatusConflict, gin.H{"error": "Product out of stock: " + product.Name})
			return
		}

		unitPrice := resolveUnitPrice(&product, line.Size, line.Color)
		items = append(items, models.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Size:      line.Size,
			Color:     line.Color,
			UnitPrice: unitPrice,
			Quantity:  line.Quantity,
		})
		subtotal += unitPrice * float64(line.Quantity)
	}

	deliveryFee := h.deliveryFee()

	order := models.Order{
		Number:        h.nextOrderNumber(),
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Address:       req.Address,
		City:          req.City,
		Notes:         req.Notes,
		Items:         items,
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		Total:         subtotal + deliveryFee,
		Status:        models.OrderStatusPending,
	}

	if err := h.db.Create(&order).Error; err != nil {
		h.logger.Error("orders: create failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	metrics.OrdersCreated.Inc()
	c.JSON(http.StatusCreated, gin.H{"data": order})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var payload struct {
		Status   string  `json:"status" binding:"required"`
		MpesaRef *string `json:"mpesa_ref"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch payload.Status {
	case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusShipped,
		models.OrderStatusDelivered, models.OrderStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + payload.Status})
		return
	}

	var order models.Order
	if err := h.db.First(&order, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	order.Status = payload.Status
	if payload.MpesaRef != nil {
		order.MpesaRef = payload.MpesaRef
	}

	if err := h.db.Save(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": order})
}

// resolveUnitPrice mirrors the feed pricing rules for a cart line: size
// price replaces, color price adds on.
func resolveUnitPrice(p *models.Product, size, color string) float64 {
	price := p.Price
	base := p.Price
	if size != "" {
		for _, s := range p.Sizes {
			if s.Value == size || s.Label == size {
				if s.Price > 0 {
					price = s.Price
					base = s.Price
				}
				break
			}
		}
	}
	if color != "" {
		for _, col := range p.Colors {
			if col.Value == color || col.Label == color {
				if col.Price > 0 {
					price = base + col.Price
				}
				break
			}
		}
	}
	return price
}

func (h *OrderHandler) deliveryFee() float64 {
	var setting models.Setting
	if err := h.db.First(&setting, "key = ?", "delivery_fee").Error; err != nil {
		return 0
	}
	fee, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil {
		h.logger.Warn("orders: invalid delivery_fee setting %q", setting.Value)
		return 0
	}
	return fee
}

// nextOrderNumber issues DK-YYMMDD-NNNN, the sequence scoped to the day.
func (h *OrderHandler) nextOrderNumber() string {
	today := time.Now().Format("060102")
	var count int64
	h.db.Model(&models.Order{}).Where("number LIKE ?", "DK-"+today+"-%").Count(&count)
	return fmt.Sprintf("DK-%s-%04d", today, count+1)
}
