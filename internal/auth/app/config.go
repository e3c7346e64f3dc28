package app

import (
	"os"
	"strconv"
	"time"

	"github.com/gatehouselabs/gatehouse/pkg/jwtx"
)

type Config struct {
	Issuer         string // Issuer claim for tokens (default: gatehouse)
	SigningKeyFile string // Optional: path to a PEM Ed25519 key; empty means ephemeral
	DatabaseFile   string // Path to SQLite database file (default: ./gatehouse.db)
	PepperFile     string // Path to the password hashing pepper file (default: ./pepper)

	AccessTokenTTL      time.Duration // Access token lifetime (default: 15m)
	MaxConcurrentHashes int           // Bound on concurrent password hashing (default: 4)

	PasswordMinLength        int  // Minimum password length (default: 8)
	PasswordRequireUppercase bool // Require an uppercase letter (default: false)
	PasswordRequireDigit     bool // Require a digit (default: false)
	PasswordRequireSymbol    bool // Require a symbol (default: false)

	HashMemoryKiB   int // Argon2id memory cost in KiB (default: OWASP recommendation)
	HashIterations  int // Argon2id time cost
	HashParallelism int // Argon2id parallelism

	Env                 string        // Environment (dev, staging, prod) (default: dev)
	LogLevel            string        // Log level (debug, info, warn, error) (default: info)
	LogFormat           string        // Log format (json, text) (default: json)
	Port                int           // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	return Config{
		Issuer:         getEnvOrDefault("GATEHOUSE_ISSUER", "gatehouse"),
		SigningKeyFile: os.Getenv("GATEHOUSE_SIGNING_KEY_FILE"),
		DatabaseFile:   getEnvOrDefault("GATEHOUSE_DATABASE_FILE", "gatehouse.db"),
		PepperFile:     getEnvOrDefault("GATEHOUSE_PEPPER_FILE", "pepper"),

		AccessTokenTTL:      getEnvDurationOrDefault("GATEHOUSE_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		MaxConcurrentHashes: getEnvIntOrDefault("GATEHOUSE_MAX_CONCURRENT_HASHES", 0),

		PasswordMinLength:        getEnvIntOrDefault("GATEHOUSE_PASSWORD_MIN_LENGTH", 8),
		PasswordRequireUppercase: getEnvBoolOrDefault("GATEHOUSE_PASSWORD_REQUIRE_UPPERCASE", false),
		PasswordRequireDigit:     getEnvBoolOrDefault("GATEHOUSE_PASSWORD_REQUIRE_DIGIT", false),
		PasswordRequireSymbol:    getEnvBoolOrDefault("GATEHOUSE_PASSWORD_REQUIRE_SYMBOL", false),

		HashMemoryKiB:   getEnvIntOrDefault("GATEHOUSE_HASH_MEMORY_KIB", 0),
		HashIterations:  getEnvIntOrDefault("GATEHOUSE_HASH_ITERATIONS", 0),
		HashParallelism: getEnvIntOrDefault("GATEHOUSE_HASH_PARALLELISM", 0),

		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
