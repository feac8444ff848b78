package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID                    string          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name                  string          `json:"name" gorm:"not null"`
	Slug                  string          `json:"slug" gorm:"unique;not null"`
	Description           *string         `json:"description"`
	MetaDescription       *string         `json:"meta_description"`
	Brand                 *string         `json:"brand"`
	Price                 float64         `json:"price" gorm:"type:decimal(10,2)"`
	CompareAtPrice        *float64        `json:"compare_at_price" gorm:"type:decimal(10,2)"`
	Stock                 *int            `json:"stock"`
	Status                string          `json:"status" gorm:"default:active"`
	Images                []ProductImage  `json:"images" gorm:"serializer:json;type:jsonb"`
	Sizes                 []VariantOption `json:"sizes" gorm:"serializer:json;type:jsonb"`
	Colors                []VariantOption `json:"colors" gorm:"serializer:json;type:jsonb"`
	GoogleProductCategory *string         `json:"google_product_category"`
	CategoryID            *string         `json:"category_id" gorm:"type:uuid"`
	Featured              bool            `json:"featured" gorm:"default:false"`
	FeaturedPosition      int             `json:"featured_position" gorm:"default:0"`
	Trending              bool            `json:"trending" gorm:"default:false"`
	TrendingPosition      int             `json:"trending_position" gorm:"default:0"`
	Deal                  bool            `json:"deal" gorm:"default:false"`
	DealPosition          int             `json:"deal_position" gorm:"default:0"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

type ProductImage struct {
	URL      string `json:"url"`
	Alt      string `json:"alt"`
	Position int    `json:"position"`
}

// VariantOption is one size or color choice. Price semantics differ by
// axis: a size price replaces the base price outright, a color price is
// added to it as an offset. Zero means "no own price" on both axes.
type VariantOption struct {
	Value string  `json:"value"`
	Label string  `json:"label"`
	Price float64 `json:"price,omitempty"`
}

const (
	ProductStatusActive   = "active"
	ProductStatusDraft    = "draft"
	ProductStatusArchived = "archived"
)

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}

// OnSale reports whether the compare-at price marks the product down.
func (p *Product) OnSale() bool {
	return p.CompareAtPrice != nil && *p.CompareAtPrice > p.Price
}

// InStock is the single availability rule used everywhere: an active
// product whose stock is unknown or positive is sellable.
func (p *Product) InStock() bool {
	return p.Status == ProductStatusActive && (p.Stock == nil || *p.Stock > 0)
}
