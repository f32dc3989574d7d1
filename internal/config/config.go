package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI string
	DBName   string
	Port     string

	JWTSecret   string
	AuthEnabled bool

	LowStockSweepInterval time.Duration

	AlertEmailEnabled bool
	AlertEmailTo      string
	AlertEmailFrom    string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPass          string

	// StrictPaymentSplit rejects orders paying with "both" whose
	// cash+card amounts do not add up to the order total. Off by default;
	// the split is informational otherwise.
	StrictPaymentSplit bool

	// AllowAnyStatusTransition disables the order status state machine
	// guard for callers that relied on free-form status updates.
	AllowAnyStatusTransition bool
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI: getEnvOrDefault("MONGO_URI", ""),
		DBName:   getEnvOrDefault("DB_NAME", "bakery"),
		Port:     getEnvOrDefault("PORT", "5000"),

		JWTSecret:   getEnvOrDefault("JWT_SECRET", "devsecret"),
		AuthEnabled: getBoolEnv("AUTH_ENABLED", false),

		LowStockSweepInterval: getMillisEnv("LOW_STOCK_CHECK_INTERVAL_MS", 3600000),

		AlertEmailEnabled: getBoolEnv("ALERT_EMAIL_ENABLED", false),
		AlertEmailTo:      getEnvOrDefault("ALERT_EMAIL_TO", ""),
		AlertEmailFrom:    getEnvOrDefault("ALERT_EMAIL_FROM", ""),
		SMTPHost:          getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUser:          getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:          getEnvOrDefault("SMTP_PASS", ""),

		StrictPaymentSplit:       getBoolEnv("STRICT_PAYMENT_SPLIT", false),
		AllowAnyStatusTransition: getBoolEnv("ALLOW_ANY_STATUS_TRANSITION", false),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value == "true"
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

func getMillisEnv(key string, defaultValue int) time.Duration {
	return time.Duration(getIntEnv(key, defaultValue)) * time.Millisecond
}
