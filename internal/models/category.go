package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name      string    `json:"name" gorm:"not null"`
	Slug      string    `json:"slug" gorm:"unique;not null"`
	Position  int       `json:"position" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProductCategory joins products to categories many-to-many. A product may
// also carry a direct CategoryID; category resolution merges both sources.
type ProductCategory struct {
	ProductID  string `json:"product_id" gorm:"type:uuid;primary_key"`
	CategoryID string `json:"category_id" gorm:"type:uuid;primary_key"`
	Position   int    `json:"position" gorm:"default:0"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
