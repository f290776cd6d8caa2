package pricing

import "github.com/restokitchen/pos/models"

// Derived table status. Never stored; recomputed from the table's
// current OPEN order (or its absence) on each query.
const (
	TableAvailable = "AVAILABLE"
	TableOccupied  = "OCCUPIED"
	TableReady     = "READY"
)

// DeriveTableStatus reports a table as AVAILABLE when it has no OPEN
// order, READY when every line of its OPEN order is FINISHED, and
// OCCUPIED otherwise.
func DeriveTableStatus(tableNumber int, openOrders []models.Order) string {
	for i := range openOrders {
		order := &openOrders[i]
		if order.TableNumber != tableNumber || !order.IsOpen() {
			continue
		}
		for _, item := range order.OrderItems {
			if item.Status != models.ItemStatusFinished {
				return TableOccupied
			}
		}
		return TableReady
	}
	return TableAvailable
}
