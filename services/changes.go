package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/restokitchen/pos/models"
)

const (
	actionInsert = "INSERT"
	actionUpdate = "UPDATE"
	actionDelete = "DELETE"
)

// recordChange appends a change-feed row. Call it inside the same
// transaction as the domain write so the feed never references a write
// that rolled back.
func recordChange(tx *gorm.DB, tableName string, recordID uint, action string) error {
	return tx.Create(&models.DBChange{
		TableName:  tableName,
		RecordID:   int64(recordID),
		ActionType: action,
		ChangedAt:  time.Now(),
	}).Error
}
