package feed

import (
	"strings"

	"duka/internal/models"
)

const (
	storageSubPath      = "products"
	maxAdditionalImages = 10
)

// resolveImages returns the absolute image URLs for a product, primary
// first. Absolute references pass through untouched; relative ones are
// resolved against the storage base URL under the products/ sub-path
// without doubling the segment. An imageless product gets the placeholder.
func (g *Generator) resolveImages(p *models.Product) []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		ref := strings.TrimSpace(img.URL)
		if ref == "" {
			continue
		}
		if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
			urls = append(urls, ref)
			continue
		}
		ref = strings.TrimPrefix(ref, "/")
		if !strings.HasPrefix(ref, storageSubPath+"/") {
			ref = storageSubPath + "/" + ref
		}
		urls = append(urls, strings.TrimSuffix(g.opts.StorageBaseURL, "/")+"/"+ref)
	}

	if len(urls) == 0 {
		return []string{g.opts.PlaceholderImage}
	}
	if len(urls) > 1+maxAdditionalImages {
		urls = urls[:1+maxAdditionalImages]
	}
	return urls
}
