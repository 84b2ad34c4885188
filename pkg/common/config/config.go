package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	ServerPort     string
	ServerHost     string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxRequestBody int64
	RateLimitRPS   int
	RateLimitBurst int

	// Datasets
	DatasetTTL      time.Duration
	DefinitionsPath string

	// HGRAC source database
	HGRACDriver   string
	HGRACHost     string
	HGRACPort     string
	HGRACUser     string
	HGRACPassword string
	HGRACDB       string
	HGRACSSLMode  string
	HGRACTable    string
	HGRACEnabled  bool

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	HGRACCacheTTL time.Duration

	// Kafka
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaGroupID   string
	KafkaRiskTopic string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first; variables already set take precedence.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8090"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		ReadTimeout:    getDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getDuration("WRITE_TIMEOUT", 30*time.Second),
		MaxRequestBody: int64(getIntEnv("MAX_REQUEST_BODY_BYTES", 32*1024*1024)),
		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 40),

		DatasetTTL:      getDuration("DATASET_TTL", 2*time.Hour),
		DefinitionsPath: getEnv("MILESTONE_DEFINITIONS_PATH", ""),

		HGRACDriver:   strings.ToLower(getEnv("HGRAC_DB_DRIVER", "postgres")),
		HGRACHost:     getEnv("HGRAC_DB_HOST", "localhost"),
		HGRACPort:     getEnv("HGRAC_DB_PORT", "5432"),
		HGRACUser:     getEnv("HGRAC_DB_USER", "trialops"),
		HGRACPassword: getEnv("HGRAC_DB_PASSWORD", ""),
		HGRACDB:       getEnv("HGRAC_DB_NAME", "clinops"),
		HGRACSSLMode:  getEnv("HGRAC_DB_SSLMODE", "disable"),
		HGRACTable:    getEnv("HGRAC_DB_TABLE", "hgrac_applications"),
		HGRACEnabled:  getBoolEnv("HGRAC_ENABLED", false),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("REDIS_DB", 0),
		HGRACCacheTTL: getDuration("HGRAC_CACHE_TTL", 10*time.Minute),

		KafkaEnabled:   getBoolEnv("KAFKA_ENABLED", false),
		KafkaBrokers:   getStringSliceEnv("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaGroupID:   getEnv("KAFKA_GROUP_ID", "trialops-risk-notifier"),
		KafkaRiskTopic: getEnv("KAFKA_RISK_TOPIC", "milestone-risks"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getStringSliceEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
