package services

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/restokitchen/pos/live"
	"github.com/restokitchen/pos/models"
	"github.com/restokitchen/pos/pricing"
	"github.com/restokitchen/pos/utils"
)

// OrderService owns the order lifecycle: confirming draft carts into
// OPEN orders, walking items through the kitchen stages and closing
// orders out via payment. Every items mutation recomputes totals in
// the same transaction under the order's version check.
type OrderService struct {
	DB  *gorm.DB
	Hub *live.Hub

	// Tables is the number of tables on the floor (1..Tables).
	Tables int

	// PaymentDelay simulates receipt printing between payment
	// initiation and the status commit.
	PaymentDelay time.Duration

	mu       sync.Mutex
	inFlight map[uint]bool
}

func NewOrderService(db *gorm.DB, hub *live.Hub, tables int, paymentDelay time.Duration) *OrderService {
	return &OrderService{
		DB:           db,
		Hub:          hub,
		Tables:       tables,
		PaymentDelay: paymentDelay,
		inFlight:     make(map[uint]bool),
	}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("OrderItems", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// All returns every order with its items in append order.
func (s *OrderService) All() ([]models.Order, error) {
	var orders []models.Order
	if err := withItems(s.DB).Order("created_at asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OpenOrders returns the OPEN orders oldest first, the kitchen board's
// working set.
func (s *OrderService) OpenOrders() ([]models.Order, error) {
	var orders []models.Order
	if err := withItems(s.DB).
		Where("status = ?", models.OrderStatusOpen).
		Order("created_at asc").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// OpenOrderCount feeds the staff assistant's prompt context.
func (s *OrderService) OpenOrderCount() (int64, error) {
	var count int64
	err := s.DB.Model(&models.Order{}).
		Where("status = ?", models.OrderStatusOpen).
		Count(&count).Error
	return count, err
}

func (s *OrderService) Get(id uint) (*models.Order, error) {
	var order models.Order
	if err := withItems(s.DB).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// OpenOrderForTable returns the table's current OPEN order, or
// gorm.ErrRecordNotFound when the table is free.
func (s *OrderService) OpenOrderForTable(table int) (*models.Order, error) {
	var order models.Order
	err := withItems(s.DB).
		Where("table_number = ? AND status = ?", table, models.OrderStatusOpen).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Confirm turns a non-empty draft cart into persisted order lines. If
// the table already has an OPEN order the cart is appended to it
// structurally (re-ordering a dish adds a second line, kitchen rounds
// fire separately); otherwise a new OPEN order is created. Totals are
// recomputed from the full item list inside the transaction.
func (s *OrderService) Confirm(table int, cart []models.OrderItem) (*models.Order, error) {
	if table < 1 || table > s.Tables {
		return nil, ErrInvalidTable
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	var orderID uint
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := withItems(tx).
			Where("table_number = ? AND status = ?", table, models.OrderStatusOpen).
			First(&order).Error

		switch {
		case err == nil:
			return s.appendToOrder(tx, &order, cart, &orderID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return s.createOrder(tx, table, cart, &orderID)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	return s.Get(orderID)
}

func (s *OrderService) createOrder(tx *gorm.DB, table int, cart []models.OrderItem, orderID *uint) error {
	totals := pricing.ComputeTotals(cart)
	slot := table
	order := models.Order{
		TableNumber: table,
		Status:      models.OrderStatusOpen,
		OpenSlot:    &slot,
		Subtotal:    totals.Subtotal,
		Tax:         totals.Tax,
		Total:       totals.Total,
	}
	if err := tx.Create(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// another terminal opened this table between our lookup
			// and the insert
			return ErrVersionConflict
		}
		return err
	}

	for i := range cart {
		item := cart[i]
		item.ID = 0
		item.OrderID = order.ID
		item.Position = i
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
	}

	*orderID = order.ID
	utils.InfoLogger.Printf("Order %d opened for table %d (%d lines)", order.ID, table, len(cart))
	return recordChange(tx, "orders", order.ID, actionInsert)
}

func (s *OrderService) appendToOrder(tx *gorm.DB, order *models.Order, cart []models.OrderItem, orderID *uint) error {
	next := len(order.OrderItems)
	all := append([]models.OrderItem(nil), order.OrderItems...)

	for i := range cart {
		item := cart[i]
		item.ID = 0
		item.OrderID = order.ID
		item.Position = next + i
		if err := tx.Create(&item).Error; err != nil {
			return err
		}
		all = append(all, item)
	}

	totals := pricing.ComputeTotals(all)
	if err := s.saveTotals(tx, order, totals); err != nil {
		return err
	}

	*orderID = order.ID
	utils.InfoLogger.Printf("Order %d extended with %d lines (table %d)", order.ID, len(cart), order.TableNumber)
	return recordChange(tx, "orders", order.ID, actionUpdate)
}

// saveTotals persists recomputed totals guarded by the order's version
// token. A concurrent writer that got there first makes the check fail
// and the whole transaction rolls back.
func (s *OrderService) saveTotals(tx *gorm.DB, order *models.Order, totals pricing.Totals) error {
	res := tx.Model(&models.Order{}).
		Where("id = ? AND version = ?", order.ID, order.Version).
		Updates(map[string]interface{}{
			"subtotal":   totals.Subtotal,
			"tax":        totals.Tax,
			"total":      totals.Total,
			"version":    order.Version + 1,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionConflict
	}
	return nil
}

// AdvanceItem moves the line at itemIndex one kitchen stage forward.
// Advancing a FINISHED line is rejected and leaves it FINISHED.
func (s *OrderService) AdvanceItem(orderID uint, itemIndex int) (*models.Order, error) {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := withItems(tx).First(&order, orderID).Error; err != nil {
			return err
		}
		if itemIndex < 0 || itemIndex >= len(order.OrderItems) {
			return ErrItemIndex
		}

		item := order.OrderItems[itemIndex]
		next, ok := pricing.NextItemStatus(item.Status)
		if !ok {
			return ErrItemFinished
		}

		if err := tx.Model(&models.OrderItem{}).
			Where("id = ?", item.ID).
			Update("status", next).Error; err != nil {
			return err
		}

		// Totals are untouched by a status change, but the version
		// bump still serializes item edits across terminals.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND version = ?", order.ID, order.Version).
			Updates(map[string]interface{}{
				"version":    order.Version + 1,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrVersionConflict
		}

		return recordChange(tx, "orders", order.ID, actionUpdate)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(orderID)
}

// CollectPayment closes an OPEN order out. It runs in two phases: the
// initiation registers the order as in flight (a second submission is
// rejected immediately), waits out the simulated printing delay, then
// commits the OPEN->CLOSED transition together with the payment row.
// The status is re-checked inside the transaction, so the commit
// happens at most once per order no matter how the calls interleave.
func (s *OrderService) CollectPayment(orderID uint) (*models.Payment, error) {
	s.mu.Lock()
	if s.inFlight[orderID] {
		s.mu.Unlock()
		return nil, ErrPaymentInFlight
	}
	s.inFlight[orderID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inFlight, orderID)
		s.mu.Unlock()
	}()

	order, err := s.Get(orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, ErrOrderClosed
	}

	s.Hub.BroadcastPaymentPending(orderID)
	time.Sleep(s.PaymentDelay)

	payment := models.Payment{
		OrderID:     orderID,
		Method:      "cash",
		ReferenceID: uuid.NewString(),
		PaidAt:      time.Now(),
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var current models.Order
		if err := tx.First(&current, orderID).Error; err != nil {
			return err
		}
		if !current.IsOpen() {
			return ErrOrderClosed
		}

		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, models.OrderStatusOpen).
			Updates(map[string]interface{}{
				"status":     models.OrderStatusClosed,
				"open_slot":  nil,
				"version":    current.Version + 1,
				"updated_at": time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderClosed
		}

		payment.Amount = current.Total
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}
		if err := recordChange(tx, "orders", orderID, actionUpdate); err != nil {
			return err
		}
		return recordChange(tx, "payments", payment.ID, actionInsert)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Order %d closed, payment %s collected (%.2f)", orderID, payment.ReferenceID, payment.Amount)
	s.Hub.BroadcastPaymentSuccess(payment)
	return &payment, nil
}
