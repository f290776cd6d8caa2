package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/restokitchen/pos/models"
	"github.com/restokitchen/pos/pricing"
	"github.com/restokitchen/pos/services"
	"github.com/restokitchen/pos/utils"
)

type TableController struct {
	Orders *services.OrderService
}

func NewTableController(orders *services.OrderService) *TableController {
	return &TableController{Orders: orders}
}

// TableView is one seating tile on the order desk. Status is derived
// on every read, never stored.
type TableView struct {
	TableNumber int           `json:"table_number"`
	Status      string        `json:"status"`
	Order       *models.Order `json:"order,omitempty"`
}

// GetAllTables -> the seating area: every table with its derived
// status and current OPEN order, if any.
func (tc *TableController) GetAllTables(c *gin.Context) {
	openOrders, err := tc.Orders.OpenOrders()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	byTable := make(map[int]*models.Order, len(openOrders))
	for i := range openOrders {
		byTable[openOrders[i].TableNumber] = &openOrders[i]
	}

	tables := make([]TableView, 0, tc.Orders.Tables)
	for t := 1; t <= tc.Orders.Tables; t++ {
		tables = append(tables, TableView{
			TableNumber: t,
			Status:      pricing.DeriveTableStatus(t, openOrders),
			Order:       byTable[t],
		})
	}

	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}
