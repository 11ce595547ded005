// Package finance computes money totals for cheese sales, milk purchases,
// transport and fixed costs using decimal arithmetic.
package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/ganaderia/internal/domain/models"
	"github.com/mamadbah2/ganaderia/internal/repository"
)

// Summary is the approximate farm result over every recorded entry.
type Summary struct {
	Sales      decimal.Decimal `json:"sales"`
	Purchases  decimal.Decimal `json:"purchases"`
	Transport  decimal.Decimal `json:"transport"`
	FixedCosts decimal.Decimal `json:"fixedCosts"`
	Utility    decimal.Decimal `json:"utility"`
}

// LineTotal multiplies quantity by unit price without float drift.
func LineTotal(quantity, unitPrice float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitPrice)).Round(2).InexactFloat64()
}

// Summarize adds up stored totals. Utility = sales - purchases - transport - fixed costs.
func Summarize(sales []models.CheeseSale, purchases []models.MilkPurchase, transport []models.MilkTransport, fixed []models.FixedCost) Summary {
	var s Summary
	for _, x := range sales {
		s.Sales = s.Sales.Add(decimal.NewFromFloat(x.Total))
	}
	for _, x := range purchases {
		s.Purchases = s.Purchases.Add(decimal.NewFromFloat(x.Total))
	}
	for _, x := range transport {
		s.Transport = s.Transport.Add(decimal.NewFromFloat(x.Total))
	}
	for _, x := range fixed {
		s.FixedCosts = s.FixedCosts.Add(decimal.NewFromFloat(x.MonthlyValue))
	}
	s.Utility = s.Sales.Sub(s.Purchases).Sub(s.Transport).Sub(s.FixedCosts)
	return s
}

// Line is one expense row of the combined finance ledger.
type Line struct {
	ID         string  `json:"id"`
	Collection string  `json:"collection"`
	Kind       string  `json:"kind"`
	Period     string  `json:"period"`
	Detail     string  `json:"detail"`
	Total      float64 `json:"total"`
}

// Ledger kinds.
const (
	KindMilkPurchase = "milk_purchase"
	KindTransport    = "milk_transport"
	KindFixedCost    = "fixed_cost"
)

// Ledger lists every expense line: purchases, then transport, then fixed costs.
func Ledger(purchases []models.MilkPurchase, transport []models.MilkTransport, fixed []models.FixedCost) []Line {
	lines := make([]Line, 0, len(purchases)+len(transport)+len(fixed))
	for _, p := range purchases {
		lines = append(lines, Line{
			ID:         p.ID,
			Collection: repository.CollectionMilkPurchase,
			Kind:       KindMilkPurchase,
			Period:     p.Period,
			Detail:     fmt.Sprintf("%s L x %s", decimal.NewFromFloat(p.Liters), decimal.NewFromFloat(p.PricePerLiter)),
			Total:      p.Total,
		})
	}
	for _, t := range transport {
		lines = append(lines, Line{
			ID:         t.ID,
			Collection: repository.CollectionTransport,
			Kind:       KindTransport,
			Period:     t.Period,
			Detail:     fmt.Sprintf("%s x %s", decimal.NewFromFloat(t.Quantity), decimal.NewFromFloat(t.Value)),
			Total:      t.Total,
		})
	}
	for _, c := range fixed {
		lines = append(lines, Line{
			ID:         c.ID,
			Collection: repository.CollectionFixedCosts,
			Kind:       KindFixedCost,
			Period:     "monthly",
			Detail:     c.Concept,
			Total:      c.MonthlyValue,
		})
	}
	return lines
}
