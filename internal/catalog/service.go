package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"duka/internal/logger"
	"duka/internal/metrics"
	"duka/internal/models"

	"gorm.io/gorm"
)

// Service caches a denormalized catalog snapshot so storefront pages and
// shelf endpoints avoid re-querying products on every request. Rebuilds
// happen on TTL expiry or explicit invalidation from the worker.
type Service struct {
	db     *gorm.DB
	logger *logger.Logger
	ttl    time.Duration

	mu       sync.Mutex
	snapshot *Snapshot

	now func() time.Time
}

func NewService(db *gorm.DB, logger *logger.Logger, ttl time.Duration) *Service {
	return &Service{
		db:     db,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Snapshot returns the cached snapshot, rebuilding it when stale or absent.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshot != nil && s.now().Sub(s.snapshot.GeneratedAt) < s.ttl {
		return s.snapshot, nil
	}

	snap, err := s.build(ctx)
	if err != nil {
		// Serve the stale snapshot if we have one rather than failing the page.
		if s.snapshot != nil {
			s.logger.Error("catalog: rebuild failed, serving stale snapshot: %v", err)
			return s.snapshot, nil
		}
		return nil, err
	}

	s.snapshot = snap
	metrics.CatalogRefreshes.Inc()
	return snap, nil
}

// Invalidate drops the snapshot; the next read rebuilds.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
}

func (s *Service) build(ctx context.Context) (*Snapshot, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.ProductStatusActive).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	categoryByID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	snap := &Snapshot{
		Products:    make([]ProductSummary, 0, len(products)),
		ByID:        make(map[string]*ProductSummary, len(products)),
		BySlug:      make(map[string]*ProductSummary, len(products)),
		GeneratedAt: s.now(),
	}

	for _, p := range products {
		summary := ProductSummary{
			ID:             p.ID,
			Name:           p.Name,
			Slug:           p.Slug,
			Price:          p.Price,
			CompareAtPrice: p.CompareAtPrice,
			OnSale:         p.OnSale(),
			InStock:        p.InStock(),
			Featured:       p.Featured,
			Trending:       p.Trending,
			Deal:           p.Deal,
		}
		if len(p.Images) > 0 {
			summary.Image = p.Images[0].URL
		}
		if p.CategoryID != nil {
			if c, ok := categoryByID[*p.CategoryID]; ok {
				summary.CategoryID = c.ID
				summary.CategoryName = c.Name
				summary.CategorySlug = c.Slug
			}
		}
		snap.Products = append(snap.Products, summary)
	}
	for i := range snap.Products {
		p := &snap.Products[i]
		snap.ByID[p.ID] = p
		snap.BySlug[p.Slug] = p
	}

	snap.Featured = shelfIDs(products, func(p models.Product) (bool, int) { return p.Featured, p.FeaturedPosition })
	snap.Trending = shelfIDs(products, func(p models.Product) (bool, int) { return p.Trending, p.TrendingPosition })
	snap.Deals = shelfIDs(products, func(p models.Product) (bool, int) { return p.Deal, p.DealPosition })

	return snap, nil
}

// shelfIDs picks flagged products and orders them by their curated position.
func shelfIDs(products []models.Product, pick func(models.Product) (bool, int)) []string {
	type ranked struct {
		id       string
		position int
	}
	var picked []ranked
	for _, p := range products {
		if ok, pos := pick(p); ok {
			picked = append(picked, ranked{id: p.ID, position: pos})
		}
	}
	sort.SliceStable(picked, func(i, j int) bool { return picked[i].position < picked[j].position })
	ids := make([]string, len(picked))
	for i, r := range picked {
		ids[i] = r.id
	}
	return ids
}
