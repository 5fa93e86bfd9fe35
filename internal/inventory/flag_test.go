package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petebuzzell-ad/rudis-documentation/pkg/models"
)

func TestFlagLowStock(t *testing.T) {
	products := []models.Product{
		product("keep", "Active", 1, 1, 1, 1, 1, 1),  // 6 in stock, above threshold
		product("boundary", "Active", 1, 1, 1, 1, 1), // exactly 5, flagged
		product("starved", "Active", 2, 0, 0),        // 1 in stock, flagged
		product("draft", "Draft", 0),                 // no status filter here
	}

	analysis := FlagLowStock(products, DefaultThreshold)

	assert.Equal(t, 4, analysis.Stats.TotalProducts)
	assert.Equal(t, 4, analysis.Stats.ProductsAnalyzed)
	assert.Equal(t, 3, analysis.Stats.ProductsFlagged)
	assert.Equal(t, DefaultThreshold, analysis.Stats.Threshold)

	// Fewest in-stock variants first.
	require.Len(t, analysis.Products, 3)
	assert.Equal(t, "draft", analysis.Products[0].ProductID)
	assert.Equal(t, "starved", analysis.Products[1].ProductID)
	assert.Equal(t, "boundary", analysis.Products[2].ProductID)
}

func TestFlagLowStockTieBreak(t *testing.T) {
	products := []models.Product{
		product("small", "Active", 1, 0),
		product("large", "Active", 1, 0, 0, 0, 0),
	}

	analysis := FlagLowStock(products, 1)

	// Equal in-stock counts: the larger size run sorts first.
	require.Len(t, analysis.Products, 2)
	assert.Equal(t, "large", analysis.Products[0].ProductID)
	assert.Equal(t, "small", analysis.Products[1].ProductID)
}

func TestFlagLowStockZeroThreshold(t *testing.T) {
	products := []models.Product{
		product("empty", "Active", 0, 0),
		product("stocked", "Active", 3),
	}

	analysis := FlagLowStock(products, 0)

	require.Len(t, analysis.Products, 1)
	assert.Equal(t, "empty", analysis.Products[0].ProductID)
}
