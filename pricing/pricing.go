package pricing

import "github.com/restokitchen/pos/models"

// TaxRate is the flat GST/sales tax applied to every bill.
const TaxRate = 0.05

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals derives subtotal, tax and total from an item list. Any
// write path that changes an order's items must persist the result of
// this function in the same transaction, so items and totals never
// drift apart.
func ComputeTotals(items []models.OrderItem) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

// NextItemStatus advances a kitchen line one stage:
// ORDERED -> PREPARING -> FINISHED. FINISHED is terminal; ok is false
// when there is no further stage.
func NextItemStatus(status string) (next string, ok bool) {
	switch status {
	case models.ItemStatusOrdered:
		return models.ItemStatusPreparing, true
	case models.ItemStatusPreparing:
		return models.ItemStatusFinished, true
	default:
		return status, false
	}
}
