package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/restokitchen/pos/assistant"
	"github.com/restokitchen/pos/config"
	"github.com/restokitchen/pos/live"
	"github.com/restokitchen/pos/middlewares"
	"github.com/restokitchen/pos/models"
	"github.com/restokitchen/pos/router"
	"github.com/restokitchen/pos/services"
	"github.com/restokitchen/pos/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// Running without a .env file is fine in production.
		utils.InfoLogger.Println("Warning: .env file not found")
	}

	utils.InitLogger()
	cfg := config.Load()

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	autoMigrate(db)

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Seed the starter catalog if the store is empty. Safe to race
	// across terminals; the settings marker keeps it single-shot.
	menuSvc := services.NewMenuService(db)
	if err := menuSvc.EnsureSeeded(); err != nil {
		utils.ErrorLogger.Fatalf("Failed to seed menu: %v", err)
	}

	hub := live.NewHub()

	monitor := services.NewChangeMonitor(db, hub)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	gen := assistant.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)

	r := router.SetupRouter(db, hub, gen, cfg)

	// 50 requests per second per IP.
	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Menu{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Setting{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}
