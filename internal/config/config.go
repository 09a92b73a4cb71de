package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Context  ContextConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JwtSecret          string
}

type DatabaseConfig struct {
	Connection string
}

// ContextConfig tunes the turn-context assembly. Policy numbers are
// injected here rather than hardcoded at call sites.
type ContextConfig struct {
	DayWindow          int
	MaxConversations   int
	MaxMessages        int
	AskCooldown        time.Duration
	MaxAskCandidates   int
	MaxContextSnippets int
	BlockCacheTTL      time.Duration
	BuildTimeout       time.Duration
	AppliedTopic       string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JwtSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Context: ContextConfig{
			DayWindow:          getEnvAsInt("CONTEXT_DAY_WINDOW", 7),
			MaxConversations:   getEnvAsInt("CONTEXT_MAX_CONVERSATIONS", 10),
			MaxMessages:        getEnvAsInt("CONTEXT_MAX_MESSAGES", 50),
			AskCooldown:        time.Duration(getEnvAsInt("ASK_COOLDOWN_HOURS", 24)) * time.Hour,
			MaxAskCandidates:   getEnvAsInt("MAX_ASK_CANDIDATES", 3),
			MaxContextSnippets: getEnvAsInt("MAX_CONTEXT_SNIPPETS", 10),
			BlockCacheTTL:      time.Duration(getEnvAsInt("CONTEXT_BLOCK_CACHE_TTL_SECONDS", 60)) * time.Second,
			BuildTimeout:       time.Duration(getEnvAsInt("CONTEXT_BUILD_TIMEOUT_MS", 2000)) * time.Millisecond,
			AppliedTopic:       getEnv("INSTRUCTION_APPLIED_TOPIC_NAME", "INSTRUCTION_APPLIED"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
