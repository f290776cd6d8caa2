package models

import "time"

// Kitchen preparation stages of a single order line.
const (
	ItemStatusOrdered   = "ORDERED"
	ItemStatusPreparing = "PREPARING"
	ItemStatusFinished  = "FINISHED"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"-"`
	OrderID uint `gorm:"not null;index" json:"-"`
	// MenuID is a weak reference on purpose: name and price are
	// snapshotted at add time, so deleting or editing the menu item
	// later leaves existing order lines untouched.
	MenuID   uint    `gorm:"not null" json:"menu_id"`
	Name     string  `gorm:"type:varchar(255);not null" json:"name"`
	Price    float64 `gorm:"type:decimal(10,2);not null" json:"price"`
	Quantity int     `gorm:"not null" json:"quantity"`
	Status   string  `gorm:"type:varchar(10);not null;default:'ORDERED'" json:"status"`
	// Position keeps the append order of lines stable across reads.
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
