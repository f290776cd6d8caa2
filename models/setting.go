package models

import "time"

// Setting is a key/value row. The primary-key constraint on Key is what
// arbitrates one-shot operations such as menu seeding: whoever inserts
// the marker row first wins, everyone else hits a duplicate key.
type Setting struct {
	Key       string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     string    `gorm:"type:varchar(255)" json:"value"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
