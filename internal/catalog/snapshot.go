package catalog

import "time"

// ProductSummary is the denormalized shape storefront pages render from:
// resolved category name, effective prices and primary image precomputed
// so list endpoints never touch the raw tables.
type ProductSummary struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compare_at_price,omitempty"`
	OnSale         bool     `json:"on_sale"`
	InStock        bool     `json:"in_stock"`
	Image          string   `json:"image"`
	CategoryID     string   `json:"category_id,omitempty"`
	CategoryName   string   `json:"category_name,omitempty"`
	CategorySlug   string   `json:"category_slug,omitempty"`
	Featured       bool     `json:"featured"`
	Trending       bool     `json:"trending"`
	Deal           bool     `json:"deal"`
}

// Snapshot is one immutable build of the denormalized catalog. Shelf
// slices hold product ids in curated position order.
type Snapshot struct {
	Products    []ProductSummary
	ByID        map[string]*ProductSummary
	BySlug      map[string]*ProductSummary
	Featured    []string
	Trending    []string
	Deals       []string
	GeneratedAt time.Time
}

// Shelf resolves an ordered id list back to summaries, skipping ids that
// dropped out of the snapshot between builds.
func (s *Snapshot) Shelf(ids []string) []ProductSummary {
	out := make([]ProductSummary, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.ByID[id]; ok {
			out = append(out, *p)
		}
	}
	return out
}
