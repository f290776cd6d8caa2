package services

import "errors"

// Validation and lifecycle errors surfaced to the HTTP layer.
// Rejections are explicit so a terminal can tell "no effect" from
// "done".
var (
	ErrInvalidTable    = errors.New("table number out of range")
	ErrEmptyCart       = errors.New("draft cart is empty")
	ErrItemIndex       = errors.New("item index out of range")
	ErrItemFinished    = errors.New("item already finished")
	ErrOrderClosed     = errors.New("order already closed")
	ErrPaymentInFlight = errors.New("payment already in progress for this order")
	ErrMenuInvalid     = errors.New("menu item needs a name and a positive price")
	ErrVersionConflict = errors.New("order was modified by another terminal, retry")
)
