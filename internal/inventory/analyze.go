// Package inventory analyzes Shopify product export rows: it groups variant
// rows into products, computes per-product stock health, and flags products
// whose in-stock variant count has fallen below a publishing threshold.
package inventory

import (
	"sort"
	"strings"

	"github.com/petebuzzell-ad/rudis-documentation/internal/csvio"
	"github.com/petebuzzell-ad/rudis-documentation/internal/parse"
	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

// Stats summarizes the whole catalog for the inventory health report.
type Stats struct {
	TotalProducts        int `json:"total_products"`
	ProductsAnalyzed     int `json:"products_analyzed"`
	ProductsActive       int `json:"products_active"`
	ProductsInactive     int `json:"products_inactive"`
	ProductsWithOOS      int `json:"products_with_oos_variants"`
	ProductsFullyInStock int `json:"products_fully_in_stock"`
	ProductsFullyOOS     int `json:"products_fully_out_of_stock"`
	TotalVariants        int `json:"total_variants"`
	TotalInStock         int `json:"total_in_stock_variants"`
	TotalOutOfStock      int `json:"total_out_of_stock_variants"`
}

// ProductHealth is the per-product detail for products that have at least
// one out-of-stock variant.
type ProductHealth struct {
	ProductID           string           `json:"product_id"`
	Handle              string           `json:"handle"`
	Title               string           `json:"title"`
	URL                 string           `json:"url"`
	Status              string           `json:"status"`
	Published           string           `json:"published"`
	TotalVariants       int              `json:"total_variants"`
	InStockVariants     int              `json:"in_stock_variants"`
	OutOfStockVariants  int              `json:"out_of_stock_variants"`
	InventoryPercentage float64          `json:"inventory_percentage"`
	Option1Name         string           `json:"option1_name"`
	Option2Name         string           `json:"option2_name"`
	Option1Values       []string         `json:"option1_values"`
	Option2Values       []string         `json:"option2_values"`
	StyleOOSBreakdown   map[string]int   `json:"style_oos_breakdown"`
	SizeOOSBreakdown    map[string]int   `json:"size_oos_breakdown"`
	Variants            []models.Variant `json:"variants"`
}

// Analysis is the full inventory health result.
type Analysis struct {
	Stats           Stats           `json:"stats"`
	ProductsWithOOS []ProductHealth `json:"products_with_oos"`
}

// GroupProducts folds variant rows into products, preserving first-seen
// order. Product-level fields come from the first row carrying the ID; rows
// without an ID are skipped.
func GroupProducts(records []csvio.Record) []models.Product {
	var order []string
	byID := make(map[string]*models.Product)

	for _, rec := range records {
		id := rec.Get("ID")
		if id == "" {
			continue
		}

		qty := parse.Quantity(rec.Get("Variant Inventory Qty"))
		variant := models.Variant{
			ID:           rec.Get("Variant ID"),
			SKU:          rec.Get("Variant SKU"),
			Title:        variantTitle(rec),
			Option1Name:  rec.Get("Option1 Name"),
			Option1Value: rec.Get("Option1 Value"),
			Option2Name:  rec.Get("Option2 Name"),
			Option2Value: rec.Get("Option2 Value"),
			Option3Name:  rec.Get("Option3 Name"),
			Option3Value: rec.Get("Option3 Value"),
			InventoryQty: qty,
			InStock:      qty > 0,
		}

		product, ok := byID[id]
		if !ok {
			product = &models.Product{
				ID:        id,
				Handle:    rec.Get("Handle"),
				Title:     rec.Get("Title"),
				URL:       rec.Get("URL"),
				Status:    rec.Get("Status"),
				Published: rec.Get("Published"),
			}
			byID[id] = product
			order = append(order, id)
		}
		product.Variants = append(product.Variants, variant)
	}

	products := make([]models.Product, 0, len(order))
	for _, id := range order {
		products = append(products, *byID[id])
	}
	return products
}

func variantTitle(rec csvio.Record) string {
	parts := []string{}
	for _, name := range []string{"Option1 Value", "Option2 Value", "Option3 Value"} {
		if v := rec.Get(name); v != "" {
			parts = append(parts, v)
		}
	}
	title := strings.Join(parts, " / ")
	if title == "" {
		return "Default Title"
	}
	return title
}

// Counts returns total, in-stock, and out-of-stock variant counts. The
// invariant total == inStock + outOfStock holds by construction.
func Counts(p models.Product) (total, inStock, outOfStock int) {
	total = len(p.Variants)
	for _, v := range p.Variants {
		if v.InStock {
			inStock++
		} else {
			outOfStock++
		}
	}
	return total, inStock, outOfStock
}

// Percentage is a zero-safe percentage rounded to one decimal place.
func Percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	pct := float64(part) / float64(total) * 100
	// Round half away from zero to one decimal.
	return float64(int(pct*10+0.5)) / 10
}

// Analyze computes catalog-wide stock health over Active products. Products
// in any other status are counted as inactive and skipped, mirroring the
// pre-filtered export this report was built for.
func Analyze(products []models.Product) Analysis {
	analysis := Analysis{
		Stats: Stats{TotalProducts: len(products)},
	}

	for _, p := range products {
		if p.Status != "Active" {
			analysis.Stats.ProductsInactive++
			continue
		}
		analysis.Stats.ProductsActive++
		analysis.Stats.ProductsAnalyzed++

		total, inStock, outOfStock := Counts(p)
		analysis.Stats.TotalVariants += total
		analysis.Stats.TotalInStock += inStock
		analysis.Stats.TotalOutOfStock += outOfStock

		switch {
		case outOfStock == 0:
			analysis.Stats.ProductsFullyInStock++
		case outOfStock == total:
			analysis.Stats.ProductsFullyOOS++
		default:
			analysis.Stats.ProductsWithOOS++
		}

		if outOfStock == 0 {
			continue
		}

		analysis.ProductsWithOOS = append(analysis.ProductsWithOOS, productHealth(p, total, inStock, outOfStock))
	}

	// Worst products first: most OOS variants, then lowest inventory
	// percentage on ties.
	sort.SliceStable(analysis.ProductsWithOOS, func(i, j int) bool {
		a, b := analysis.ProductsWithOOS[i], analysis.ProductsWithOOS[j]
		if a.OutOfStockVariants != b.OutOfStockVariants {
			return a.OutOfStockVariants > b.OutOfStockVariants
		}
		return a.InventoryPercentage < b.InventoryPercentage
	})

	return analysis
}

func productHealth(p models.Product, total, inStock, outOfStock int) ProductHealth {
	styleOOS := make(map[string]int)
	sizeOOS := make(map[string]int)
	option1Set := make(map[string]struct{})
	option2Set := make(map[string]struct{})

	for _, v := range p.Variants {
		if v.Option1Value != "" {
			option1Set[v.Option1Value] = struct{}{}
		}
		if v.Option2Value != "" {
			option2Set[v.Option2Value] = struct{}{}
		}
		if !v.InStock {
			if v.Option1Value != "" {
				styleOOS[v.Option1Value]++
			}
			if v.Option2Value != "" {
				sizeOOS[v.Option2Value]++
			}
		}
	}

	health := ProductHealth{
		ProductID:           p.ID,
		Handle:              p.Handle,
		Title:               p.Title,
		URL:                 p.URL,
		Status:              p.Status,
		Published:           p.Published,
		TotalVariants:       total,
		InStockVariants:     inStock,
		OutOfStockVariants:  outOfStock,
		InventoryPercentage: Percentage(inStock, total),
		Option1Values:       sortedKeys(option1Set),
		Option2Values:       sortedKeys(option2Set),
		StyleOOSBreakdown:   styleOOS,
		SizeOOSBreakdown:    sizeOOS,
		Variants:            p.Variants,
	}
	if len(p.Variants) > 0 {
		health.Option1Name = p.Variants[0].Option1Name
		health.Option2Name = p.Variants[0].Option2Name
	}
	return health
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
