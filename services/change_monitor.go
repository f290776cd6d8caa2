package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/restokitchen/pos/live"
	"github.com/restokitchen/pos/models"
	"github.com/restokitchen/pos/utils"
)

// ChangeMonitor turns the change feed into live pushes. It polls
// unprocessed db_changes rows on an interval and rebroadcasts the full
// authoritative collection for every touched table, so terminals
// always replace their local state with a complete snapshot instead of
// merging partial updates.
type ChangeMonitor struct {
	DB       *gorm.DB
	Hub      *live.Hub
	Interval time.Duration
	StopChan chan struct{}
}

func NewChangeMonitor(db *gorm.DB, hub *live.Hub) *ChangeMonitor {
	return &ChangeMonitor{
		DB:       db,
		Hub:      hub,
		Interval: time.Second,
		StopChan: make(chan struct{}),
	}
}

func (cm *ChangeMonitor) Start() {
	go func() {
		ticker := time.NewTicker(cm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cm.checkChanges()
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	close(cm.StopChan)
}

func (cm *ChangeMonitor) checkChanges() {
	touched := make(map[string]bool)

	err := cm.DB.Transaction(func(tx *gorm.DB) error {
		var changes []models.DBChange
		if err := tx.Where("processed = ?", false).
			Order("changed_at ASC").
			Limit(100).
			Find(&changes).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}

		ids := make([]uint, 0, len(changes))
		for _, change := range changes {
			touched[change.TableName] = true
			ids = append(ids, change.ID)
		}

		return tx.Model(&models.DBChange{}).
			Where("id IN ?", ids).
			Update("processed", true).Error
	})
	if err != nil {
		utils.ErrorLogger.Printf("change monitor: %v", err)
		return
	}

	if touched["menus"] {
		cm.broadcastMenuSnapshot()
	}
	if touched["orders"] || touched["payments"] {
		cm.broadcastOrdersSnapshot()
	}
}

func (cm *ChangeMonitor) broadcastMenuSnapshot() {
	var menus []models.Menu
	if err := cm.DB.Order("name asc").Find(&menus).Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: load menus: %v", err)
		return
	}
	cm.Hub.BroadcastMenuSnapshot(menus)
}

func (cm *ChangeMonitor) broadcastOrdersSnapshot() {
	var orders []models.Order
	if err := withItems(cm.DB).Order("created_at asc").Find(&orders).Error; err != nil {
		utils.ErrorLogger.Printf("change monitor: load orders: %v", err)
		return
	}
	cm.Hub.BroadcastOrdersSnapshot(orders)
}
