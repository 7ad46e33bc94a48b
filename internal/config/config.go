package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	VerifyToken   string
	WhatsAppToken string
	PhoneNumberID string

	DBDriver   string // "postgres" or "sqlite"
	DBPath     string // sqlite file
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	// StaleOwnerSentinelID is the placeholder owner whose parked tickets the
	// resolver may reclaim. Legacy rule: only tickets parked under this one
	// user are eligible, not all stale tickets.
	StaleOwnerSentinelID uint

	// CampaignSendDelayMS is the pause between consecutive campaign sends.
	CampaignSendDelayMS int
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: Error loading .env file")
	}

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		VerifyToken:          getEnv("VERIFY_TOKEN", ""),
		WhatsAppToken:        getEnv("WHATSAPP_TOKEN", ""),
		PhoneNumberID:        getEnv("PHONE_NUMBER_ID", ""),
		DBDriver:             getEnv("DB_DRIVER", "sqlite"),
		DBPath:               getEnv("DB_PATH", "./ticketdesk.db"),
		DBHost:               getEnv("DB_HOST", "localhost"),
		DBUser:               getEnv("DB_USER", "postgres"),
		DBPassword:           getEnv("DB_PASSWORD", ""),
		DBName:               getEnv("DB_NAME", "ticketdesk"),
		DBPort:               getEnv("DB_PORT", "5432"),
		DBSSLMode:            getEnv("DB_SSLMODE", "disable"),
		StaleOwnerSentinelID: getEnvUint("STALE_OWNER_SENTINEL_ID", 1212),
		CampaignSendDelayMS:  getEnvInt("CAMPAIGN_SEND_DELAY_MS", 20000),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}

func getEnvUint(key string, fallback uint) uint {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.ParseUint(value, 10, 32); err == nil {
			return uint(n)
		}
		log.Printf("Warning: invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}
