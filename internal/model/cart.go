package model

import "github.com/shopspring/decimal"

// CartLine pairs a product with the number of units of it held in the cart.
type CartLine struct {
	Product Product `json:"product"`
	Count   int     `json:"count"`
}

// CartSummary is the reconciled cart returned to the browser.
type CartSummary struct {
	Lines      []CartLine      `json:"lines"`
	TotalCount int             `json:"totalCount"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// NewCartSummary totals the given lines.
func NewCartSummary(lines []CartLine) *CartSummary {
	if lines == nil {
		lines = []CartLine{}
	}

	summary := &CartSummary{
		Lines:      lines,
		TotalPrice: decimal.Zero,
	}
	for _, line := range lines {
		summary.TotalCount += line.Count
		summary.TotalPrice = summary.TotalPrice.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Count))))
	}

	return summary
}
