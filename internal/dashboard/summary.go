package dashboard

import (
	"github.com/wonny/warehouse/internal/contracts"
)

// StockSummary is the catalog grouped by stock status
type StockSummary struct {
	TotalProducts int                 `json:"total_products"`
	OK            int                 `json:"ok"`
	LowStock      int                 `json:"low_stock"`
	Critical      int                 `json:"critical"`
	Products      []contracts.Product `json:"products"`
}

// Summarize counts products per status
func Summarize(products []contracts.Product) *StockSummary {
	s := &StockSummary{TotalProducts: len(products), Products: products}
	if s.Products == nil {
		s.Products = []contracts.Product{}
	}

	for _, p := range products {
		switch p.Status {
		case contracts.StockOK:
			s.OK++
		case contracts.StockLow:
			s.LowStock++
		case contracts.StockCritical:
			s.Critical++
		}
	}
	return s
}
