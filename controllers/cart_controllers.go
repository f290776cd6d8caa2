package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/restokitchen/pos/pricing"
	"github.com/restokitchen/pos/services"
	"github.com/restokitchen/pos/utils"
)

// CartController manages the per-table draft carts. Drafts never touch
// the store; Confirm is the only path from a draft into an order.
type CartController struct {
	Carts  *services.CartManager
	Menus  *services.MenuService
	Orders *services.OrderService
}

func NewCartController(carts *services.CartManager, menus *services.MenuService, orders *services.OrderService) *CartController {
	return &CartController{Carts: carts, Menus: menus, Orders: orders}
}

func (cc *CartController) tableParam(c *gin.Context) (int, bool) {
	table, err := strconv.Atoi(c.Param("table_number"))
	if err != nil || table < 1 || table > cc.Orders.Tables {
		utils.RespondError(c, http.StatusBadRequest, services.ErrInvalidTable)
		return 0, false
	}
	return table, true
}

// GetCart -> the table's draft with running totals.
func (cc *CartController) GetCart(c *gin.Context) {
	table, ok := cc.tableParam(c)
	if !ok {
		return
	}

	cart := cc.Carts.Get(table)
	utils.RespondJSON(c, http.StatusOK, "Draft cart", gin.H{
		"table_number": table,
		"items":        cart,
		"totals":       pricing.ComputeTotals(cart),
	})
}

// AddItem -> put one unit of a menu item into the draft. Lines for the
// same dish merge-increment.
func (cc *CartController) AddItem(c *gin.Context) {
	table, ok := cc.tableParam(c)
	if !ok {
		return
	}

	var body struct {
		MenuID uint `json:"menu_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	menu, err := cc.Menus.Get(body.MenuID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if !menu.Available {
		utils.RespondError(c, http.StatusConflict, errors.New("menu item is not available"))
		return
	}

	cart := cc.Carts.Add(table, *menu)
	utils.RespondJSON(c, http.StatusOK, "Item added to cart", gin.H{
		"items":  cart,
		"totals": pricing.ComputeTotals(cart),
	})
}

// RemoveItem -> take one unit of a dish out of the draft.
func (cc *CartController) RemoveItem(c *gin.Context) {
	table, ok := cc.tableParam(c)
	if !ok {
		return
	}

	menuID, err := strconv.ParseUint(c.Param("menu_id"), 10, 32)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu_id"))
		return
	}

	cart := cc.Carts.Remove(table, uint(menuID))
	utils.RespondJSON(c, http.StatusOK, "Item removed from cart", gin.H{
		"items":  cart,
		"totals": pricing.ComputeTotals(cart),
	})
}

// Confirm -> persist the draft into the table's order. The draft is
// cleared only after the write succeeds.
func (cc *CartController) Confirm(c *gin.Context) {
	table, ok := cc.tableParam(c)
	if !ok {
		return
	}

	order, err := cc.Orders.Confirm(table, cc.Carts.Get(table))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	cc.Carts.Clear(table)

	utils.RespondJSON(c, http.StatusCreated, "Order confirmed", order)
}

// ClearCart -> discard the draft, e.g. when the terminal switches
// tables.
func (cc *CartController) ClearCart(c *gin.Context) {
	table, ok := cc.tableParam(c)
	if !ok {
		return
	}

	cc.Carts.Clear(table)
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", gin.H{"table_number": table})
}
