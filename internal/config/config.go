package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort      string
	LogMode         string
	DatabaseType    string
	DatabasePath    string
	DatabaseURL     string
	MigrationsPath  string
	SessionDuration time.Duration
	JWTSecret       string
	CSRFSecret      string

	// Persistence backend for quiz and chat history: "sql" or "mongo"
	StoreBackend  string
	MongoURI      string
	MongoDatabase string

	// Optional event publishing; disabled when either is empty
	RabbitMQURI      string
	RabbitMQExchange string

	QuizGenerationTimeout time.Duration
	PersistTimeout        time.Duration
	AssistantLatency      time.Duration
	ControllerIdleTTL     time.Duration
	LoginRateLimit        int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	return &Config{
		ServerPort:      getEnv("PORT", "8080"),
		LogMode:         getEnv("LOG_MODE", "development"),
		DatabaseType:    getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath:    getEnv("DB_PATH", "./codeforge.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		SessionDuration: getDuration("SESSION_DURATION", 24*time.Hour),
		JWTSecret:       getEnv("JWT_SECRET", "change-me-in-production"),
		CSRFSecret:      getEnv("CSRF_SECRET", "change-me-too"),

		StoreBackend:  getEnv("STORE_BACKEND", "sql"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "codeforge"),

		RabbitMQURI:      getEnv("RABBITMQ_URI", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", ""),

		QuizGenerationTimeout: getDuration("QUIZ_GENERATION_TIMEOUT", 10*time.Second),
		PersistTimeout:        getDuration("PERSIST_TIMEOUT", 5*time.Second),
		AssistantLatency:      getDuration("ASSISTANT_LATENCY", 500*time.Millisecond),
		ControllerIdleTTL:     getDuration("CONTROLLER_IDLE_TTL", 2*time.Hour),
		LoginRateLimit:        getInt("LOGIN_RATE_LIMIT", 10),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration parses a Go duration string such as "750ms" or "2h"
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s (%q), using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s (%q), using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}
