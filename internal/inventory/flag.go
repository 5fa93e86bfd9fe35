package inventory

import (
	"sort"

	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

// DefaultThreshold is the in-stock variant count at or below which a
// product is flagged for unpublishing from the sales channel.
const DefaultThreshold = 5

// FlagStats summarizes a threshold pass over the catalog.
type FlagStats struct {
	TotalProducts    int `json:"total_products"`
	ProductsAnalyzed int `json:"products_analyzed"`
	ProductsFlagged  int `json:"products_flagged"`
	Threshold        int `json:"threshold"`
	TotalVariants    int `json:"total_variants_analyzed"`
	TotalInStock     int `json:"total_in_stock_variants"`
	TotalOutOfStock  int `json:"total_out_of_stock_variants"`
}

// FlaggedProduct is one unpublish candidate.
type FlaggedProduct struct {
	ProductID          string           `json:"product_id"`
	Handle             string           `json:"handle"`
	Title              string           `json:"title"`
	URL                string           `json:"url"`
	Status             string           `json:"status"`
	Published          string           `json:"published"`
	TotalVariants      int              `json:"total_variants"`
	InStockVariants    int              `json:"in_stock_variants"`
	OutOfStockVariants int              `json:"out_of_stock_variants"`
	Variants           []models.Variant `json:"variants"`
}

// FlagAnalysis is the threshold pass result. Its JSON form is the input to
// the publish unpublish command.
type FlagAnalysis struct {
	Stats    FlagStats        `json:"stats"`
	Products []FlaggedProduct `json:"products_to_unpublish"`
}

// FlagLowStock flags every product whose in-stock variant count is at or
// below threshold. A product with exactly `threshold` in-stock variants is
// included. Unlike Analyze this pass does not filter by status; the export
// handed to it decides the population.
func FlagLowStock(products []models.Product, threshold int) FlagAnalysis {
	analysis := FlagAnalysis{
		Stats: FlagStats{
			TotalProducts: len(products),
			Threshold:     threshold,
		},
	}

	for _, p := range products {
		total, inStock, outOfStock := Counts(p)
		analysis.Stats.ProductsAnalyzed++
		analysis.Stats.TotalVariants += total
		analysis.Stats.TotalInStock += inStock
		analysis.Stats.TotalOutOfStock += outOfStock

		if inStock > threshold {
			continue
		}
		analysis.Stats.ProductsFlagged++
		analysis.Products = append(analysis.Products, FlaggedProduct{
			ProductID:          p.ID,
			Handle:             p.Handle,
			Title:              p.Title,
			URL:                p.URL,
			Status:             p.Status,
			Published:          p.Published,
			TotalVariants:      total,
			InStockVariants:    inStock,
			OutOfStockVariants: outOfStock,
			Variants:           p.Variants,
		})
	}

	// Most starved products first: fewest in stock, then largest size runs.
	sort.SliceStable(analysis.Products, func(i, j int) bool {
		a, b := analysis.Products[i], analysis.Products[j]
		if a.InStockVariants != b.InStockVariants {
			return a.InStockVariants < b.InStockVariants
		}
		return a.TotalVariants > b.TotalVariants
	})

	return analysis
}
