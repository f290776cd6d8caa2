package models

import "time"

// DBChange is the change feed backing live subscriptions. Services
// append a row in the same transaction as the domain write; the change
// monitor polls unprocessed rows and rebroadcasts full collection
// snapshots to every connected terminal.
type DBChange struct {
	ID         uint      `gorm:"primaryKey"`
	TableName  string    `gorm:"type:varchar(50);not null;index:idx_table_action"`
	RecordID   int64     `gorm:"not null"`
	ActionType string    `gorm:"type:varchar(10);not null;index:idx_table_action"`
	ChangedAt  time.Time `gorm:"not null"`
	Processed  bool      `gorm:"default:false;index:idx_processed"`
}
