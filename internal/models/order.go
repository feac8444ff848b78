package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID            string      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Number        string      `json:"number" gorm:"unique;not null"`
	CustomerName  string      `json:"customer_name" gorm:"not null"`
	CustomerPhone string      `json:"customer_phone" gorm:"not null"`
	CustomerEmail *string     `json:"customer_email"`
	Address       *string     `json:"address"`
	City          *string     `json:"city"`
	Notes         *string     `json:"notes"`
	Items         []OrderItem `json:"items" gorm:"serializer:json;type:jsonb"`
	Subtotal      float64     `json:"subtotal" gorm:"type:decimal(10,2)"`
	DeliveryFee   float64     `json:"delivery_fee" gorm:"type:decimal(10,2)"`
	Total         float64     `json:"total" gorm:"type:decimal(10,2)"`
	Status        string      `json:"status" gorm:"default:pending"`
	MpesaRef      *string     `json:"mpesa_ref"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}
