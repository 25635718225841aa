package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   upstream credentials) and security settings
// - default: Values common across all environments (timeouts, rates, TTLs)
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Upstream UpstreamConfig
	Payment  PaymentConfig
	Pricing  PricingConfig
	Cache    CacheConfig
	CORS     CORSConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr     string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

type KafkaConfig struct {
	Brokers []string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic   string   `envconfig:"KAFKA_BOOKING_TOPIC" default:"booking-events"`
	Enabled bool     `envconfig:"KAFKA_ENABLED" default:"true"`
}

// UpstreamConfig points at the property-management authority that owns
// occupancy ground truth across all sales channels.
type UpstreamConfig struct {
	BaseURL   string        `envconfig:"UPSTREAM_BASE_URL" required:"true"`
	APIToken  string        `envconfig:"UPSTREAM_API_TOKEN" required:"true"`
	Timeout   time.Duration `envconfig:"UPSTREAM_TIMEOUT" default:"8s"`
	WidgetURL string        `envconfig:"UPSTREAM_WIDGET_URL" default:""`
}

type PaymentConfig struct {
	BaseURL   string        `envconfig:"PAYMENT_BASE_URL" required:"true"`
	SecretKey string        `envconfig:"PAYMENT_SECRET_KEY" required:"true"`
	Timeout   time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"15s"`
}

type PricingConfig struct {
	TaxRatePercent    float64 `envconfig:"PRICING_TAX_RATE_PERCENT" default:"8.0"`
	ChannelFeePercent float64 `envconfig:"PRICING_CHANNEL_FEE_PERCENT" default:"3.0"`
	CleaningFeeCents  int64   `envconfig:"PRICING_CLEANING_FEE_CENTS" default:"12500"`
	PetFeeCents       int64   `envconfig:"PRICING_PET_FEE_CENTS" default:"7500"`
	Currency          string  `envconfig:"PRICING_CURRENCY" default:"USD"`
}

type CacheConfig struct {
	CalendarTTL     time.Duration `envconfig:"CACHE_CALENDAR_TTL" default:"6h"`
	AvailabilityTTL time.Duration `envconfig:"CACHE_AVAILABILITY_TTL" default:"5m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Upstream: UpstreamConfig{
			BaseURL:  "http://localhost:18080",
			APIToken: "test-token",
			Timeout:  2 * time.Second,
		},
		Payment: PaymentConfig{
			BaseURL:   "http://localhost:18081",
			SecretKey: "sk_test",
			Timeout:   2 * time.Second,
		},
		Pricing: PricingConfig{
			TaxRatePercent:    8.0,
			ChannelFeePercent: 3.0,
			CleaningFeeCents:  12500,
			PetFeeCents:       7500,
			Currency:          "USD",
		},
		Cache: CacheConfig{
			CalendarTTL:     6 * time.Hour,
			AvailabilityTTL: 5 * time.Minute,
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
	}
}
