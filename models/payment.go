package models

import "time"

// Payment records the close-out of an order. One row per order; the
// amount is the order total at the moment of collection.
type Payment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrderID     uint      `gorm:"not null;uniqueIndex" json:"order_id"`
	Amount      float64   `gorm:"type:decimal(10,2);not null" json:"amount"`
	Method      string    `gorm:"type:varchar(20);not null;default:'cash'" json:"method"`
	ReferenceID string    `gorm:"type:varchar(64);not null" json:"reference_id"`
	PaidAt      time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}
