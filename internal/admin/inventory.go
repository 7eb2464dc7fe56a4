// Package admin backs the shop owner's dashboard: stock overview and the
// demo order board.
package admin

import (
	"strings"

	"github.com/ManuC12/Raices-de-vida/internal/domain"
)

// LowStockThreshold flags products whose stock across all variants is below it.
const LowStockThreshold = 5

type InventoryRow struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Category  domain.Category `json:"category"`
	Price     float64         `json:"price"`
	Variants  int             `json:"variants"`
	Stock     int             `json:"stock"`
	LowStock  bool            `json:"lowStock"`
}

// Inventory lists products whose name contains query, ignoring case.
// An empty query lists everything.
func Inventory(products []domain.Product, query string) []InventoryRow {
	query = strings.ToLower(strings.TrimSpace(query))

	rows := make([]InventoryRow, 0, len(products))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		stock := p.TotalStock()
		rows = append(rows, InventoryRow{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image(),
			Category:  p.Category,
			Price:     p.Price,
			Variants:  len(p.Variants),
			Stock:     stock,
			LowStock:  stock < LowStockThreshold,
		})
	}
	return rows
}
