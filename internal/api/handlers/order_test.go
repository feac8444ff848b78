package handlers

import (
	"testing"

	"duka/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveUnitPrice(t *testing.T) {
	product := models.Product{
		ID:    "p1",
		Name:  "Polo Shirt",
		Price: 1000,
		Sizes: []models.VariantOption{
			{Value: "m", Label: "M"},
			{Value: "xl", Label: "XL", Price: 1200},
		},
		Colors: []models.VariantOption{
			{Value: "white", Label: "White"},
			{Value: "red", Label: "Red", Price: 100},
		},
	}

	tests := []struct {
		name     string
		size     string
		color    string
		expected float64
	}{
		{"no selection", "", "", 1000},
		{"size without own price", "m", "", 1000},
		{"size with absolute price", "xl", "", 1200},
		{"color without own price", "", "white", 1000},
		{"color offset added to base", "", "red", 1100},
		{"size replacement plus color offset", "xl", "red", 1300},
		{"matched by label too", "XL", "Red", 1300},
		{"unknown selection falls back to base", "xxl", "green", 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolveUnitPrice(&product, tt.size, tt.color))
		})
	}
}
