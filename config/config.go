package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Ledger configuration
	NodeURL       string
	ModuleAddress string
	ModuleName    string

	// Wallet bridge configuration
	WalletBridgeURL string

	// Finality polling configuration
	PollInterval    time.Duration
	MaxPollAttempts int

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Rate limiting
	WriteRateLimit  int
	WriteRateWindow time.Duration

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Ledger
		NodeURL:       getEnv("APTOS_NODE_URL", "https://fullnode.devnet.aptoslabs.com"),
		ModuleAddress: getEnv("POAP_MODULE_ADDRESS", "0xd97248e5d29be6dd506d19a9ba6d40d7317c183de20aac4facbb025be0a5dfe6"),
		ModuleName:    getEnv("POAP_MODULE_NAME", "risein_poap"),

		// Wallet bridge
		WalletBridgeURL: getEnv("WALLET_BRIDGE_URL", "http://localhost:8091"),

		// Polling: 1s spacing, 20 attempts => 20s confirmation bound
		PollInterval:    getEnvAsDuration("TX_POLL_INTERVAL", "1s"),
		MaxPollAttempts: getEnvAsInt("TX_MAX_POLL_ATTEMPTS", 20),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// Rate limiting
		WriteRateLimit:  getEnvAsInt("WRITE_RATE_LIMIT", 10),
		WriteRateWindow: getEnvAsDuration("WRITE_RATE_WINDOW", "1m"),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, fall back to the default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
