package inventory

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petebuzzell-ad/rudis-documentation/internal/csvio"
	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

func product(id, status string, quantities ...int) models.Product {
	p := models.Product{ID: id, Handle: "handle-" + id, Title: "Product " + id, Status: status}
	for _, qty := range quantities {
		p.Variants = append(p.Variants, models.Variant{
			InventoryQty: qty,
			InStock:      qty > 0,
		})
	}
	return p
}

func TestGroupProducts(t *testing.T) {
	input := strings.Join([]string{
		"ID,Handle,Title,Status,Option1 Name,Option1 Value,Option2 Name,Option2 Value,Variant Inventory Qty",
		"100,singlet-red,Red Singlet,Active,Style,Crimson,Size,S,3",
		"100,,,,Style,Crimson,Size,M,0",
		"200,shoes-blue,Blue Shoes,Draft,,,,,7",
		",,,,,,,,5",
	}, "\n")

	records, err := csvio.Read(strings.NewReader(input))
	require.NoError(t, err)

	products := GroupProducts(records)
	require.Len(t, products, 2)

	// First-seen order, variant rows folded into the first product row.
	assert.Equal(t, "100", products[0].ID)
	assert.Equal(t, "singlet-red", products[0].Handle)
	require.Len(t, products[0].Variants, 2)
	assert.Equal(t, "Crimson / S", products[0].Variants[0].Title)
	assert.True(t, products[0].Variants[0].InStock)
	assert.False(t, products[0].Variants[1].InStock)

	assert.Equal(t, "200", products[1].ID)
	assert.Equal(t, "Default Title", products[1].Variants[0].Title)
}

func TestCounts(t *testing.T) {
	p := product("1", "Active", 0, 0, 5)
	total, inStock, outOfStock := Counts(p)

	assert.Equal(t, 3, total)
	assert.Equal(t, 1, inStock)
	assert.Equal(t, 2, outOfStock)
	assert.Equal(t, total, inStock+outOfStock)
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 33.3, Percentage(1, 3))
	assert.Equal(t, 100.0, Percentage(4, 4))
	assert.Equal(t, 0.0, Percentage(0, 5))
	assert.Equal(t, 0.0, Percentage(3, 0))
}

func TestAnalyze(t *testing.T) {
	products := []models.Product{
		product("1", "Active", 5, 5),      // fully in stock
		product("2", "Active", 0, 0),      // fully out of stock
		product("3", "Active", 3, 0, 0),   // mixed
		product("4", "Draft", 0, 0, 0, 0), // inactive, skipped entirely
		product("5", "Archived", 1),       // inactive, skipped entirely
	}

	analysis := Analyze(products)
	stats := analysis.Stats

	assert.Equal(t, 5, stats.TotalProducts)
	assert.Equal(t, 3, stats.ProductsActive)
	assert.Equal(t, 2, stats.ProductsInactive)
	assert.Equal(t, 7, stats.TotalVariants)
	assert.Equal(t, 3, stats.TotalInStock)
	assert.Equal(t, 4, stats.TotalOutOfStock)
	assert.Equal(t, 1, stats.ProductsFullyInStock)
	assert.Equal(t, 1, stats.ProductsFullyOOS)
	assert.Equal(t, 1, stats.ProductsWithOOS)

	// Only products with OOS variants are listed, worst first.
	require.Len(t, analysis.ProductsWithOOS, 2)
	assert.Equal(t, "2", analysis.ProductsWithOOS[0].ProductID)
	assert.Equal(t, "3", analysis.ProductsWithOOS[1].ProductID)
	assert.Equal(t, 33.3, analysis.ProductsWithOOS[1].InventoryPercentage)
}

func TestAnalyzeOptionBreakdowns(t *testing.T) {
	p := models.Product{
		ID:     "1",
		Status: "Active",
		Variants: []models.Variant{
			{Option1Name: "Style", Option1Value: "Crimson", Option2Name: "Size", Option2Value: "S", InventoryQty: 0},
			{Option1Name: "Style", Option1Value: "Crimson", Option2Name: "Size", Option2Value: "M", InventoryQty: 2, InStock: true},
			{Option1Name: "Style", Option1Value: "Navy", Option2Name: "Size", Option2Value: "S", InventoryQty: 0},
		},
	}

	analysis := Analyze([]models.Product{p})
	require.Len(t, analysis.ProductsWithOOS, 1)
	health := analysis.ProductsWithOOS[0]

	assert.Equal(t, []string{"Crimson", "Navy"}, health.Option1Values)
	assert.Equal(t, []string{"M", "S"}, health.Option2Values)
	assert.Equal(t, map[string]int{"Crimson": 1, "Navy": 1}, health.StyleOOSBreakdown)
	assert.Equal(t, map[string]int{"S": 2}, health.SizeOOSBreakdown)
	assert.Equal(t, "Style", health.Option1Name)
}
