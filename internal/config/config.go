package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

type Config struct {
	ServerPort int
	LogLevel   string

	StoreDriver   string
	PostgresURL   string
	MigrationsDir string
	MongoURI      string
	MongoDatabase string

	// RedisAddr is empty when Redis is not configured
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RateLimitRate  float64
	RateLimitBurst int

	SettlementInterval        time.Duration
	NotificationRetention     time.Duration
	NotificationPurgeInterval time.Duration
	PushTimeout               time.Duration

	PaymentTimeout       time.Duration
	PaymentCurrency      string
	PaymentLinkTTL       time.Duration
	PaymentReturnURL     string
	CashfreeBaseURL      string
	CashfreeClientID     string
	CashfreeClientSecret string
	CashfreeAPIVersion   string

	// NTPServers is empty when the system clock is trusted
	NTPServers      []string
	NTPSyncInterval time.Duration
}

// PaymentsEnabled reports whether gateway credentials are configured
func (c *Config) PaymentsEnabled() bool {
	return c.CashfreeClientID != "" && c.CashfreeClientSecret != ""
}

// LoadConfig reads an optional .env file and then the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: failed to load .env: %w", err)
	}

	var p parser
	config := &Config{}

	config.ServerPort = p.int("PORT", 8080)
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	config.StoreDriver = strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreMemory))
	switch config.StoreDriver {
	case StoreMemory, StorePostgres, StoreMongo:
	default:
		p.fail("STORE_DRIVER", config.StoreDriver, fmt.Errorf("must be one of %s, %s, %s", StoreMemory, StorePostgres, StoreMongo))
	}

	dbHost := getEnvOrDefault("AUCTION_DB_HOST", "localhost")
	dbPort := getEnvOrDefault("AUCTION_DB_PORT", "5432")
	dbName := getEnvOrDefault("AUCTION_DB_DATABASE", "auctions")
	dbUser := getEnvOrDefault("AUCTION_DB_USERNAME", "postgres")
	dbPassword := getEnvOrDefault("AUCTION_DB_PASSWORD", "postgres")
	config.PostgresURL = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPassword, dbHost, dbPort, dbName)
	config.MigrationsDir = getEnvOrDefault("MIGRATIONS_DIR", "migrations")

	config.MongoURI = getEnvOrDefault("MONGO_URI", "mongodb://localhost:27017")
	config.MongoDatabase = getEnvOrDefault("MONGO_DATABASE", "auction_engine")

	if redisHost := os.Getenv("AUCTION_REDIS_HOST"); redisHost != "" {
		config.RedisAddr = fmt.Sprintf("%s:%s", redisHost, getEnvOrDefault("AUCTION_REDIS_PORT", "6379"))
	}
	config.RedisPassword = os.Getenv("AUCTION_REDIS_PASSWORD")
	config.RedisDB = p.int("AUCTION_REDIS_DB", 0)

	config.RateLimitRate = p.float("RATE_LIMIT_RATE", 5)
	config.RateLimitBurst = p.int("RATE_LIMIT_BURST", 10)

	config.SettlementInterval = p.duration("SETTLEMENT_INTERVAL", 30*time.Second)
	config.NotificationRetention = p.duration("NOTIFICATION_RETENTION", 45*24*time.Hour)
	config.NotificationPurgeInterval = p.duration("NOTIFICATION_PURGE_INTERVAL", time.Hour)
	config.PushTimeout = p.duration("PUSH_TIMEOUT", 3*time.Second)

	config.PaymentTimeout = p.duration("PAYMENT_TIMEOUT", 10*time.Second)
	config.PaymentCurrency = getEnvOrDefault("PAYMENT_CURRENCY", "INR")
	config.PaymentLinkTTL = p.duration("PAYMENT_LINK_TTL", 7*24*time.Hour)
	config.PaymentReturnURL = os.Getenv("PAYMENT_RETURN_URL")
	config.CashfreeBaseURL = getEnvOrDefault("CASHFREE_BASE_URL", "https://sandbox.cashfree.com/pg")
	config.CashfreeClientID = os.Getenv("CASHFREE_CLIENT_ID")
	config.CashfreeClientSecret = os.Getenv("CASHFREE_CLIENT_SECRET")
	config.CashfreeAPIVersion = getEnvOrDefault("CASHFREE_API_VERSION", "2023-08-01")

	for _, s := range strings.Split(os.Getenv("NTP_SERVER"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			config.NTPServers = append(config.NTPServers, s)
		}
	}
	config.NTPSyncInterval = p.duration("NTP_SYNC_INTERVAL", 10*time.Minute)

	if p.err != nil {
		return nil, p.err
	}
	return config, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser keeps the first invalid value it sees
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("config: invalid %s %q: %w", key, value, err)
	}
}

func (p *parser) int(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return n
}

func (p *parser) float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	return f
}

func (p *parser) duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(key, v, err)
		return def
	}
	if d < 0 {
		p.fail(key, v, fmt.Errorf("must not be negative"))
		return def
	}
	return d
}
