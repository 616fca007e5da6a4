// Package config provides centralized default values for CampaignForge
package config

import (
	"bufio"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

func loadEnvFile() {
	envLoaded.Do(func() {
		file, err := os.Open(".env")
		if err != nil {
			return
		}
		defer file.Close()

		log.Println("Loading configuration overrides from .env file...")
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())

			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}

			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}

			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if os.Getenv(key) == "" {
				os.Setenv(key, value)
			}
		}
	})
}

func getEnvInt(key string, defaultValue int) int {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.Atoi(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%d (default: %d)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		if val != defaultValue {
			log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
		}
		return val
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseBool(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%t (default: %t)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := time.ParseDuration(valStr); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%s (default: %s)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if valStr := os.Getenv(key); valStr != "" {
		if val, err := strconv.ParseFloat(valStr, 64); err == nil {
			if val != defaultValue {
				log.Printf("Config override: %s=%g (default: %g)", key, val, defaultValue)
			}
			return val
		}
	}
	return defaultValue
}

var (
	// Server Configuration
	Port               string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration

	// AI Generation Configuration
	OpenAIAPIKey  string
	AIModel       string
	AIBaseURL     string
	AITimeout     time.Duration
	AITemperature float64

	// Session Configuration
	SessionIdleTTL         time.Duration
	SessionCleanupInterval time.Duration
	SessionCleanupVerbose  bool

	// Database Configuration
	CampaignDBPath           string
	TursoEnabled             bool
	TursoDatabase            string
	TursoToken               string
	DBMaxOpenConns           int
	DBMaxIdleConns           int
	DBConnMaxLifetimeMinutes int
	DBConnMaxIdleMinutes     int

	// Auth Configuration
	AuthEnabled   bool
	JWTSecret     string
	AdminPassword string

	// Email Configuration
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	EmailEnabled  bool
)

func init() {
	loadEnvFile()

	// Server Configuration
	Port = getEnvString("PORT", "8080")
	ServerReadTimeout = getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second)
	ServerWriteTimeout = getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second)
	ServerIdleTimeout = getEnvDuration("SERVER_IDLE_TIMEOUT", 60*time.Second)

	// AI Generation
	OpenAIAPIKey = getEnvString("OPENAI_API_KEY", "")
	AIModel = getEnvString("AI_MODEL", "gpt-4o-mini")
	AIBaseURL = getEnvString("AI_BASE_URL", "")
	AITimeout = getEnvDuration("AI_TIMEOUT", 30*time.Second)
	AITemperature = getEnvFloat("AI_TEMPERATURE", 0.7)

	// Sessions. SESSION_IDLE_TTL=0 disables idle eviction entirely;
	// sessions then live until an explicit end-session call.
	SessionIdleTTL = getEnvDuration("SESSION_IDLE_TTL", 0)
	SessionCleanupInterval = time.Duration(getEnvInt("SESSION_CLEANUP_INTERVAL_MINUTES", 10)) * time.Minute
	SessionCleanupVerbose = getEnvBool("SESSION_CLEANUP_VERBOSE", false)

	// Database
	CampaignDBPath = getEnvString("CAMPAIGN_DB_PATH", "data/campaigns.db")
	TursoEnabled = getEnvBool("TURSO_ENABLED", false)
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken = getEnvString("TURSO_AUTH_TOKEN", "")
	DBMaxOpenConns = getEnvInt("DB_MAX_OPEN_CONNS", 10)
	DBMaxIdleConns = getEnvInt("DB_MAX_IDLE_CONNS", 3)
	DBConnMaxLifetimeMinutes = getEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 30)
	DBConnMaxIdleMinutes = getEnvInt("DB_CONN_MAX_IDLE_MINUTES", 3)

	// Auth
	AuthEnabled = getEnvBool("AUTH_ENABLED", false)
	JWTSecret = getEnvString("JWT_SECRET", "")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")

	// Email
	ResendAPIKey = getEnvString("RESEND_API_KEY", "")
	EmailFrom = getEnvString("EMAIL_FROM", "noreply@campaignforge.dev")
	EmailFromName = getEnvString("EMAIL_FROM_NAME", "CampaignForge")
	EmailEnabled = ResendAPIKey != ""
}
