package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/restokitchen/pos/live"
	"github.com/restokitchen/pos/models"
	"github.com/restokitchen/pos/pricing"
)

func newOrderService(t *testing.T, name string) *OrderService {
	t.Helper()
	db := newTestDB(t, name)
	return NewOrderService(db, live.NewHub(), 12, 0)
}

func cartOf(menus ...models.Menu) []models.OrderItem {
	now := time.Now()
	var cart []models.OrderItem
	for _, m := range menus {
		cart = AddCartLine(cart, m, now)
	}
	return cart
}

func TestConfirmCreatesOpenOrder(t *testing.T) {
	svc := newOrderService(t, "order_create")

	order, err := svc.Confirm(3, cartOf(risotto))
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusOpen, order.Status)
	assert.Equal(t, 3, order.TableNumber)
	assert.Len(t, order.OrderItems, 1)
	assert.InDelta(t, 450.0, order.Subtotal, 0.001)
	assert.InDelta(t, 22.5, order.Tax, 0.001)
	assert.InDelta(t, 472.5, order.Total, 0.001)
}

func TestConfirmExtendsExistingOrder(t *testing.T) {
	svc := newOrderService(t, "order_extend")
	calamari := models.Menu{ID: 2, Name: "Crispy Calamari", Price: 320, Category: models.CategoryStarters, Available: true}

	first, err := svc.Confirm(5, cartOf(risotto))
	require.NoError(t, err)

	second, err := svc.Confirm(5, cartOf(calamari))
	require.NoError(t, err)

	// same order, new line appended after the original
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.OrderItems, 2)
	assert.Equal(t, "Truffle Mushroom Risotto", second.OrderItems[0].Name)
	assert.Equal(t, "Crispy Calamari", second.OrderItems[1].Name)
	assert.InDelta(t, 770.0, second.Subtotal, 0.001)
	assert.InDelta(t, 38.5, second.Tax, 0.001)
	assert.InDelta(t, 808.5, second.Total, 0.001)
}

func TestConfirmSameDishAddsSecondLine(t *testing.T) {
	svc := newOrderService(t, "order_dup_line")

	_, err := svc.Confirm(2, cartOf(risotto))
	require.NoError(t, err)

	order, err := svc.Confirm(2, cartOf(risotto))
	require.NoError(t, err)

	// a re-ordered dish is a fresh kitchen round, not a merged quantity
	require.Len(t, order.OrderItems, 2)
	assert.Equal(t, 1, order.OrderItems[0].Quantity)
	assert.Equal(t, 1, order.OrderItems[1].Quantity)
	assert.InDelta(t, 945.0, order.Total, 0.001)
}

func TestConfirmValidation(t *testing.T) {
	svc := newOrderService(t, "order_validation")

	_, err := svc.Confirm(0, cartOf(risotto))
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = svc.Confirm(13, cartOf(risotto))
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = svc.Confirm(4, nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestAdvanceItemWalksStages(t *testing.T) {
	svc := newOrderService(t, "order_advance")

	order, err := svc.Confirm(1, cartOf(risotto))
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusOrdered, order.OrderItems[0].Status)

	order, err = svc.AdvanceItem(order.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusPreparing, order.OrderItems[0].Status)

	order, err = svc.AdvanceItem(order.ID, 0)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusFinished, order.OrderItems[0].Status)

	// FINISHED is terminal
	_, err = svc.AdvanceItem(order.ID, 0)
	assert.ErrorIs(t, err, ErrItemFinished)

	order, err = svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemStatusFinished, order.OrderItems[0].Status)
}

func TestAdvanceItemBadIndex(t *testing.T) {
	svc := newOrderService(t, "order_advance_idx")

	order, err := svc.Confirm(1, cartOf(risotto))
	require.NoError(t, err)

	_, err = svc.AdvanceItem(order.ID, -1)
	assert.ErrorIs(t, err, ErrItemIndex)

	_, err = svc.AdvanceItem(order.ID, 1)
	assert.ErrorIs(t, err, ErrItemIndex)
}

func TestCollectPaymentClosesOrder(t *testing.T) {
	svc := newOrderService(t, "order_pay")

	order, err := svc.Confirm(7, cartOf(risotto))
	require.NoError(t, err)

	payment, err := svc.CollectPayment(order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 472.5, payment.Amount, 0.001)
	assert.NotEmpty(t, payment.ReferenceID)

	closed, err := svc.Get(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusClosed, closed.Status)

	// table is free again
	_, err = svc.OpenOrderForTable(7)
	assert.Error(t, err)
}

func TestCollectPaymentTwiceIsRejected(t *testing.T) {
	svc := newOrderService(t, "order_pay_twice")

	order, err := svc.Confirm(8, cartOf(risotto))
	require.NoError(t, err)

	_, err = svc.CollectPayment(order.ID)
	require.NoError(t, err)

	_, err = svc.CollectPayment(order.ID)
	assert.ErrorIs(t, err, ErrOrderClosed)

	var count int64
	svc.DB.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCollectPaymentConcurrentDoubleSubmit(t *testing.T) {
	svc := newOrderService(t, "order_pay_race")
	svc.PaymentDelay = 50 * time.Millisecond

	order, err := svc.Confirm(9, cartOf(risotto))
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CollectPayment(order.ID)
		}(i)
	}
	wg.Wait()

	// one commit, one rejection, exactly one payment row
	var okCount, rejected int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		case err == ErrPaymentInFlight || err == ErrOrderClosed:
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, rejected)

	var count int64
	svc.DB.Model(&models.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestOpenSlotEnforcesSingleOpenOrder(t *testing.T) {
	svc := newOrderService(t, "order_open_slot")

	order, err := svc.Confirm(3, cartOf(risotto))
	require.NoError(t, err)

	// a racing insert that slipped past the open-order lookup hits the
	// unique slot column instead of creating a second OPEN order
	slot := 3
	err = svc.DB.Create(&models.Order{TableNumber: 3, Status: models.OrderStatusOpen, OpenSlot: &slot}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// through the service, the loser surfaces as a retryable conflict
	var id uint
	err = svc.DB.Transaction(func(tx *gorm.DB) error {
		return svc.createOrder(tx, 3, cartOf(chai), &id)
	})
	assert.ErrorIs(t, err, ErrVersionConflict)

	var open int64
	svc.DB.Model(&models.Order{}).
		Where("table_number = ? AND status = ?", 3, models.OrderStatusOpen).
		Count(&open)
	assert.Equal(t, int64(1), open)

	// closing the order frees the slot for the next party
	_, err = svc.CollectPayment(order.ID)
	require.NoError(t, err)

	next, err := svc.Confirm(3, cartOf(chai))
	require.NoError(t, err)
	assert.NotEqual(t, order.ID, next.ID)
}

func TestConfirmAfterCloseOpensNewOrder(t *testing.T) {
	svc := newOrderService(t, "order_reopen")

	first, err := svc.Confirm(4, cartOf(risotto))
	require.NoError(t, err)

	_, err = svc.CollectPayment(first.ID)
	require.NoError(t, err)

	second, err := svc.Confirm(4, cartOf(chai))
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, models.OrderStatusOpen, second.Status)
	assert.Len(t, second.OrderItems, 1)
}

func TestOpenOrderCount(t *testing.T) {
	svc := newOrderService(t, "order_open_count")

	_, err := svc.Confirm(1, cartOf(risotto))
	require.NoError(t, err)
	order, err := svc.Confirm(2, cartOf(chai))
	require.NoError(t, err)

	count, err := svc.OpenOrderCount()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = svc.CollectPayment(order.ID)
	require.NoError(t, err)

	count, err = svc.OpenOrderCount()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestTableStatusFollowsKitchenProgress(t *testing.T) {
	svc := newOrderService(t, "order_table_status")

	order, err := svc.Confirm(6, cartOf(risotto))
	require.NoError(t, err)

	open, err := svc.OpenOrders()
	require.NoError(t, err)
	assert.Equal(t, pricing.TableOccupied, pricing.DeriveTableStatus(6, open))
	assert.Equal(t, pricing.TableAvailable, pricing.DeriveTableStatus(1, open))

	_, err = svc.AdvanceItem(order.ID, 0)
	require.NoError(t, err)
	_, err = svc.AdvanceItem(order.ID, 0)
	require.NoError(t, err)

	open, err = svc.OpenOrders()
	require.NoError(t, err)
	assert.Equal(t, pricing.TableReady, pricing.DeriveTableStatus(6, open))
}
