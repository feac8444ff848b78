package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"duka/internal/logger"
	"duka/internal/models"

	"gorm.io/gorm"
)

// ErrEmptyCatalog is returned when the store has no active products; the
// handler turns it into the minimal error document.
var ErrEmptyCatalog = errors.New("no active products in catalog")

// ErrorDocument is the minimal well-formed feed served on generation failure.
const ErrorDocument = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Error</title></channel></rss>`

const (
	maxDescriptionLength = 5000
	minDescriptionLength = 120
)

type Options struct {
	StoreName        string
	StoreURL         string
	StoreDescription string
	Currency         string
	StorageBaseURL   string
	PlaceholderImage string
}

// Generator builds the Google Shopping RSS document from the catalog.
type Generator struct {
	db     *gorm.DB
	logger *logger.Logger
	opts   Options
}

func NewGenerator(db *gorm.DB, logger *logger.Logger, opts Options) *Generator {
	return &Generator{
		db:     db,
		logger: logger,
		opts:   opts,
	}
}

// Generate loads the active catalog and renders the full feed document.
// A failure on the primary product query aborts; category lookups degrade
// to "no categories" so a broken join never blocks the whole feed.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	var products []models.Product
	if err := g.db.WithContext(ctx).
		Where("status = ?", models.ProductStatusActive).
		Order("created_at ASC, id ASC").
		Find(&products).Error; err != nil {
		return "", fmt.Errorf("failed to load products: %w", err)
	}
	if len(products) == 0 {
		return "", ErrEmptyCatalog
	}

	categories, links := g.loadCategories(ctx)
	return g.render(products, categories, links), nil
}

// render builds the document from an already-loaded catalog snapshot.
// Output is deterministic for a given snapshot so repeated requests within
// the cache window serve byte-identical bodies.
func (g *Generator) render(products []models.Product, categories map[string]models.Category, links map[string][]string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<rss xmlns:g="http://base.google.com/ns/1.0" version="2.0">` + "\n")
	b.WriteString("  <channel>\n")
	fmt.Fprintf(&b, "    <title>%s</title>\n", escapeXML(g.opts.StoreName))
	fmt.Fprintf(&b, "    <link>%s</link>\n", escapeXML(g.opts.StoreURL))
	fmt.Fprintf(&b, "    <description>%s</description>\n", escapeXML(g.opts.StoreDescription))

	for i := range products {
		p := &products[i]
		resolved := g.resolveCategories(p, categories, links)
		for _, entry := range expandVariants(p) {
			g.writeItem(&b, p, entry, resolved)
		}
	}

	b.WriteString("  </channel>\n")
	b.WriteString("</rss>\n")
	return b.String()
}

// loadCategories fetches the category table and the many-to-many join rows.
// Either query failing is logged and treated as an empty result.
func (g *Generator) loadCategories(ctx context.Context) (map[string]models.Category, map[string][]string) {
	byID := make(map[string]models.Category)
	byProduct := make(map[string][]string)

	var categories []models.Category
	if err := g.db.WithContext(ctx).Find(&categories).Error; err != nil {
		g.logger.Error("feed: failed to load categories, continuing without: %v", err)
		return byID, byProduct
	}
	for _, c := range categories {
		byID[c.ID] = c
	}

	var links []models.ProductCategory
	if err := g.db.WithContext(ctx).Order("product_id, position ASC").Find(&links).Error; err != nil {
		g.logger.Error("feed: failed to load category links, continuing without: %v", err)
		return byID, byProduct
	}
	for _, l := range links {
		byProduct[l.ProductID] = append(byProduct[l.ProductID], l.CategoryID)
	}
	return byID, byProduct
}

// resolveCategories merges the many-to-many rows (in position order) with
// the direct FK category, first seen wins, direct FK appended only when
// not already present.
func (g *Generator) resolveCategories(p *models.Product, byID map[string]models.Category, byProduct map[string][]string) []models.Category {
	var out []models.Category
	seen := make(map[string]bool)
	for _, catID := range byProduct[p.ID] {
		if seen[catID] {
			continue
		}
		if c, ok := byID[catID]; ok {
			out = append(out, c)
			seen[catID] = true
		}
	}
	if p.CategoryID != nil && !seen[*p.CategoryID] {
		if c, ok := byID[*p.CategoryID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// itemEntry is one <item> worth of variant selection for a product.
type itemEntry struct {
	Suffix string
	Size   *models.VariantOption
	Color  *models.VariantOption
}

// expandVariants produces the entry list for a product: a single entry
// when it has no variants, one per size or per color when only one axis is
// set, and the sizes-outer colors-inner cartesian product when both are.
func expandVariants(p *models.Product) []itemEntry {
	switch {
	case len(p.Sizes) == 0 && len(p.Colors) == 0:
		return []itemEntry{{}}
	case len(p.Colors) == 0:
		entries := make([]itemEntry, 0, len(p.Sizes))
		for i := range p.Sizes {
			s := &p.Sizes[i]
			entries = append(entries, itemEntry{Suffix: "-" + slugifyLabel(s.Label), Size: s})
		}
		return entries
	case len(p.Sizes) == 0:
		entries := make([]itemEntry, 0, len(p.Colors))
		for i := range p.Colors {
			c := &p.Colors[i]
			entries = append(entries, itemEntry{Suffix: "-" + slugifyLabel(c.Label), Color: c})
		}
		return entries
	default:
		entries := make([]itemEntry, 0, len(p.Sizes)*len(p.Colors))
		for i := range p.Sizes {
			for j := range p.Colors {
				s, c := &p.Sizes[i], &p.Colors[j]
				entries = append(entries, itemEntry{
					Suffix: "-" + slugifyLabel(s.Label) + "-" + slugifyLabel(c.Label),
					Size:   s,
					Color:  c,
				})
			}
		}
		return entries
	}
}

// entryPrice resolves the listed/sale price pair for one entry. The base
// pair comes from the compare-at markdown; a size price replaces the
// listed price outright, a color price is an offset on top of the base
// (or the size override). Any variant-level price drops the sale pair.
func entryPrice(p *models.Product, entry itemEntry) (listed float64, sale *float64) {
	listed = p.Price
	if p.OnSale() {
		listed = *p.CompareAtPrice
		salePrice := p.Price
		sale = &salePrice
	}

	base := p.Price
	if entry.Size != nil && entry.Size.Price > 0 {
		listed = entry.Size.Price
		base = entry.Size.Price
		sale = nil
	}
	if entry.Color != nil && entry.Color.Price > 0 {
		listed = base + entry.Color.Price
		sale = nil
	}
	return listed, sale
}

// availability renders the canonical in-stock rule as a feed value.
func availability(p *models.Product) string {
	if p.InStock() {
		return "in stock"
	}
	return "out of stock"
}

// buildDescription joins the stripped description and meta description,
// pads short results with a canned sentence, and truncates long ones at a
// word boundary.
func (g *Generator) buildDescription(p *models.Product) string {
	var parts []string
	if p.Description != nil {
		if s := stripHTML(*p.Description); s != "" {
			parts = append(parts, s)
		}
	}
	if p.MetaDescription != nil {
		if s := stripHTML(*p.MetaDescription); s != "" {
			parts = append(parts, s)
		}
	}
	combined := strings.TrimSpace(strings.Join(parts, " "))
	if utf8.RuneCountInString(combined) < minDescriptionLength {
		fallback := fmt.Sprintf("Shop %s at %s. Quality products with fast delivery across Kenya.",
			p.Name, g.opts.StoreName)
		combined = strings.TrimSpace(combined + " " + fallback)
	}
	return truncateAtWord(combined, maxDescriptionLength)
}

func (g *Generator) formatPrice(v float64) string {
	return fmt.Sprintf("%.2f %s", v, g.opts.Currency)
}

func (g *Generator) writeItem(b *strings.Builder, p *models.Product, entry itemEntry, categories []models.Category) {
	listed, sale := entryPrice(p, entry)
	images := g.resolveImages(p)
	link := strings.TrimSuffix(g.opts.StoreURL, "/") + "/products/" + p.Slug

	brand := g.opts.StoreName
	if p.Brand != nil && *p.Brand != "" {
		brand = *p.Brand
	}

	b.WriteString("    <item>\n")
	fmt.Fprintf(b, "      <g:id>%s</g:id>\n", escapeXML(p.ID+entry.Suffix))
	fmt.Fprintf(b, "      <g:item_group_id>%s</g:item_group_id>\n", escapeXML(p.ID))
	fmt.Fprintf(b, "      <g:title>%s</g:title>\n", escapeXML(p.Name))
	fmt.Fprintf(b, "      <g:description>%s</g:description>\n", escapeXML(g.buildDescription(p)))
	fmt.Fprintf(b, "      <g:link>%s</g:link>\n", escapeXML(link))
	fmt.Fprintf(b, "      <g:image_link>%s</g:image_link>\n", escapeXML(images[0]))
	for _, img := range images[1:] {
		fmt.Fprintf(b, "      <g:additional_image_link>%s</g:additional_image_link>\n", escapeXML(img))
	}
	fmt.Fprintf(b, "      <g:availability>%s</g:availability>\n", availability(p))
	fmt.Fprintf(b, "      <g:price>%s</g:price>\n", g.formatPrice(listed))
	if sale != nil {
		fmt.Fprintf(b, "      <g:sale_price>%s</g:sale_price>\n", g.formatPrice(*sale))
	}
	b.WriteString("      <g:condition>new</g:condition>\n")
	fmt.Fprintf(b, "      <g:brand>%s</g:brand>\n", escapeXML(brand))
	if entry.Size != nil {
		fmt.Fprintf(b, "      <g:size>%s</g:size>\n", escapeXML(entry.Size.Label))
	}
	if entry.Color != nil {
		fmt.Fprintf(b, "      <g:color>%s</g:color>\n", escapeXML(entry.Color.Label))
	}
	b.WriteString("      <g:shipping>\n")
	b.WriteString("        <g:country>KE</g:country>\n")
	b.WriteString("        <g:service>Standard</g:service>\n")
	fmt.Fprintf(b, "        <g:price>0 %s</g:price>\n", g.opts.Currency)
	b.WriteString("      </g:shipping>\n")
	fmt.Fprintf(b, "      <g:mpn>%s</g:mpn>\n", escapeXML(p.ID+entry.Suffix))
	if p.GoogleProductCategory != nil && *p.GoogleProductCategory != "" {
		fmt.Fprintf(b, "      <g:google_product_category>%s</g:google_product_category>\n", escapeXML(*p.GoogleProductCategory))
	}
	if len(categories) > 0 {
		fmt.Fprintf(b, "      <g:product_type>%s</g:product_type>\n", escapeXML(categories[0].Name))
	}
	b.WriteString("      <g:adult>no</g:adult>\n")
	b.WriteString("      <g:identifier_exists>no</g:identifier_exists>\n")
	b.WriteString("    </item>\n")
}
