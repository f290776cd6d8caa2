package models

import "time"

// Menu categories. CategoryAll is a synthetic filter value used by the
// order desk only and is never persisted.
const (
	CategoryAll      = "all"
	CategoryStarters = "starters"
	CategoryMain     = "main"
	CategoryDrinks   = "drinks"
	CategoryDesserts = "desserts"
)

// Categories lists every persistable category.
var Categories = []string{CategoryStarters, CategoryMain, CategoryDrinks, CategoryDesserts}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Menu struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string    `gorm:"type:varchar(20);not null;default:'main'" json:"category"`
	Available   bool      `gorm:"not null;default:true" json:"available"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
