package models

import "time"

// Order status. CLOSED is terminal; an order is closed by payment
// collection and never reopened.
const (
	OrderStatusOpen   = "OPEN"
	OrderStatusClosed = "CLOSED"
)

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	TableNumber int    `gorm:"not null;index" json:"table_number"`
	Status      string `gorm:"type:varchar(10);not null;default:'OPEN'" json:"status"`
	// OpenSlot holds the table number while the order is OPEN and is
	// nulled on close. MySQL has no partial indexes, so this unique
	// column is what enforces "at most one OPEN order per table" when
	// two terminals race past the open-order lookup.
	OpenSlot   *int        `gorm:"uniqueIndex" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
	Subtotal   float64     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Tax        float64     `gorm:"type:decimal(10,2);not null" json:"tax"`
	Total      float64     `gorm:"type:decimal(10,2);not null" json:"total"`
	// Version is checked and bumped by every write that touches the
	// item list, so concurrent terminals cannot silently overwrite
	// one another's appends.
	Version   uint      `gorm:"not null;default:1" json:"-"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (o *Order) IsOpen() bool {
	return o.Status == OrderStatusOpen
}
