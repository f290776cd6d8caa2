package services

import (
	"sync"
	"time"

	"github.com/restokitchen/pos/models"
)

// CartManager holds the draft carts, one per table. A draft is purely
// transient: it is never written to the store and survives only until
// the order is confirmed or the table is switched.
type CartManager struct {
	mu    sync.Mutex
	carts map[int][]models.OrderItem
}

func NewCartManager() *CartManager {
	return &CartManager{carts: make(map[int][]models.OrderItem)}
}

// Get returns a copy of the table's draft cart.
func (cm *CartManager) Get(table int) []models.OrderItem {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return append([]models.OrderItem(nil), cm.carts[table]...)
}

// Add puts one unit of a menu item into the table's draft. A line for
// the same dish is incremented rather than duplicated.
func (cm *CartManager) Add(table int, menu models.Menu) []models.OrderItem {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.carts[table] = AddCartLine(cm.carts[table], menu, time.Now())
	return append([]models.OrderItem(nil), cm.carts[table]...)
}

// Remove takes one unit of a dish out of the draft, dropping the line
// at quantity one. Removing a dish that is not in the draft is a no-op.
func (cm *CartManager) Remove(table int, menuID uint) []models.OrderItem {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.carts[table] = RemoveCartLine(cm.carts[table], menuID)
	return append([]models.OrderItem(nil), cm.carts[table]...)
}

// Clear discards the table's draft. Called after a successful confirm
// and when the terminal switches tables.
func (cm *CartManager) Clear(table int) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.carts, table)
}

// AddCartLine merge-increments an existing line for the dish or
// appends a new ORDERED line with quantity 1.
func AddCartLine(cart []models.OrderItem, menu models.Menu, now time.Time) []models.OrderItem {
	for i := range cart {
		if cart[i].MenuID == menu.ID {
			cart[i].Quantity++
			return cart
		}
	}
	return append(cart, models.OrderItem{
		MenuID:    menu.ID,
		Name:      menu.Name,
		Price:     menu.Price,
		Quantity:  1,
		Status:    models.ItemStatusOrdered,
		CreatedAt: now,
	})
}

// RemoveCartLine decrements the dish's line, removing it entirely at
// quantity one. The cart is returned unchanged if the dish is absent.
func RemoveCartLine(cart []models.OrderItem, menuID uint) []models.OrderItem {
	for i := range cart {
		if cart[i].MenuID != menuID {
			continue
		}
		if cart[i].Quantity > 1 {
			cart[i].Quantity--
			return cart
		}
		return append(cart[:i], cart[i+1:]...)
	}
	return cart
}
