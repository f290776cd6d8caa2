package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/restokitchen/pos/services"
	"github.com/restokitchen/pos/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

func orderIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("order_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid order_id"))
		return 0, false
	}
	return uint(id), true
}

// GetAllOrders -> every order with its items.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	orders, err := oc.Orders.All()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID -> detail of one order.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := oc.Orders.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetKitchenDisplay -> the kitchen board: OPEN orders oldest first.
func (oc *OrderController) GetKitchenDisplay(c *gin.Context) {
	orders, err := oc.Orders.OpenOrders()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Kitchen display orders", orders)
}

// AdvanceItem -> move one order line a kitchen stage forward
// (ORDERED -> PREPARING -> FINISHED).
func (oc *OrderController) AdvanceItem(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	index, err := strconv.Atoi(c.Param("item_index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid item_index"))
		return
	}

	order, err := oc.Orders.AdvanceItem(id, index)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item status advanced", order)
}

// CollectPayment -> close the order out. Blocks for the processing
// delay and answers only once the status write is committed, so the
// terminal can keep its pay button locked until then.
func (oc *OrderController) CollectPayment(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	payment, err := oc.Orders.CollectPayment(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Payment collected", payment)
}

// GetReceipt -> the printable bill as plain text.
func (oc *OrderController) GetReceipt(c *gin.Context) {
	id, ok := orderIDParam(c)
	if !ok {
		return
	}

	order, err := oc.Orders.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var b strings.Builder
	b.WriteString("        RestoKitchen\n")
	b.WriteString(fmt.Sprintf("T-%d    %s\n", order.TableNumber, time.Now().Format("02 Jan 2006 15:04")))
	b.WriteString("--------------------------------\n")
	for _, item := range order.OrderItems {
		b.WriteString(fmt.Sprintf("%-20s x%d %9s\n",
			item.Name, item.Quantity, utils.FormatCurrency(item.Price*float64(item.Quantity))))
	}
	b.WriteString("--------------------------------\n")
	b.WriteString(fmt.Sprintf("Subtotal %23s\n", utils.FormatCurrency(order.Subtotal)))
	b.WriteString(fmt.Sprintf("Tax (5%%) %23s\n", utils.FormatCurrency(order.Tax)))
	b.WriteString(fmt.Sprintf("TOTAL %26s\n", utils.FormatCurrency(order.Total)))

	c.String(http.StatusOK, b.String())
}
