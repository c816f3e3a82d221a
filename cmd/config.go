package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	HTTPPort       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string
	DBMaxOpenConns int
	DBMaxIdleConns int

	TaxRate              decimal.Decimal
	OrderMaxItemQuantity int
	OrderMaxItems        int
	OrderCurrency        string

	KafkaHost              string
	KafkaOrderChangedTopic string
	RedisAddr              string
	IdempotencyTTL         time.Duration

	AdminToken     string
	PurgeRetention time.Duration
	PurgeSchedule  string
}

// DSN is the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads .env when present, then the environment. Malformed numbers,
// durations and schedules are reported together.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return configFromEnv(os.Getenv)
}

func configFromEnv(getenv func(string) string) (Config, error) {
	r := envReader{getenv: getenv}

	cfg := Config{
		HTTPPort:       r.string("HTTP_PORT", "8080"),
		DBHost:         r.string("DB_HOST", "localhost"),
		DBPort:         r.string("DB_PORT", "5432"),
		DBUser:         r.string("DB_USER", "postgres"),
		DBPassword:     r.string("DB_PASSWORD", ""),
		DBName:         r.string("DB_NAME", "storefront"),
		DBSslMode:      r.string("DB_SSLMODE", "disable"),
		DBMaxOpenConns: r.int("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: r.int("DB_MAX_IDLE_CONNS", 5),

		TaxRate:              r.decimal("TAX_RATE", decimal.RequireFromString("0.18")),
		OrderMaxItemQuantity: r.int("ORDER_MAX_ITEM_QUANTITY", 1000),
		OrderMaxItems:        r.int("ORDER_MAX_ITEMS", 100),
		OrderCurrency:        strings.ToUpper(r.string("ORDER_CURRENCY", "USD")),

		KafkaHost:              r.string("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: r.string("KAFKA_ORDER_CHANGED_TOPIC", "orders.changed"),
		RedisAddr:              r.string("REDIS_ADDR", ""),
		IdempotencyTTL:         r.duration("IDEMPOTENCY_TTL", 24*time.Hour),

		AdminToken:     r.string("ADMIN_TOKEN", ""),
		PurgeRetention: r.duration("PURGE_RETENTION", 720*time.Hour),
		PurgeSchedule:  r.string("PURGE_SCHEDULE", "@hourly"),
	}

	if _, err := cron.ParseStandard(cfg.PurgeSchedule); err != nil {
		r.errs = append(r.errs, fmt.Errorf("PURGE_SCHEDULE: %w", err))
	}
	return cfg, errors.Join(r.errs...)
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (r *envReader) string(key, fallback string) string {
	if v := strings.TrimSpace(r.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (r *envReader) int(key string, fallback int) int {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a positive integer", key, v))
		return fallback
	}
	return n
}

func (r *envReader) decimal(key string, fallback decimal.Decimal) decimal.Decimal {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return fallback
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a non-negative decimal", key, v))
		return fallback
	}
	return d
}

func (r *envReader) duration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(r.getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		r.errs = append(r.errs, fmt.Errorf("%s: %q is not a positive duration", key, v))
		return fallback
	}
	return d
}
