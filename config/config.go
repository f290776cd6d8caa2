package config

import (
	"os"
	"strconv"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config carries everything read from the environment. Values not set
// fall back to development defaults.
type Config struct {
	Port     string
	DBDriver string // "mysql" or "sqlite"
	DBDSN    string

	// Number of tables on the floor; the order desk renders 1..TableCount.
	TableCount int

	// Simulated receipt-printing delay between payment initiation and
	// the status commit.
	PaymentDelay time.Duration

	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBDSN:         getEnv("DB_DSN", "restokitchen.db"),
		TableCount:    getEnvInt("TABLE_COUNT", 12),
		PaymentDelay:  getEnvDuration("PAYMENT_DELAY", 2*time.Second),
		GeminiAPIKey:  os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
	}
	return cfg
}

// InitDB opens the configured database. TranslateError is on so
// duplicate-key conflicts surface as gorm.ErrDuplicatedKey on every
// driver, which the seeding guard relies on.
func InitDB(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}

	switch cfg.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.DBDSN), gormCfg)
	default:
		return gorm.Open(sqlite.Open(cfg.DBDSN), gormCfg)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
