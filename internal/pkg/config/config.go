package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, secrets)
// - default: Values common across all environments (timezone, hold duration, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Booking BookingConfig
	Payment PaymentConfig
	Ticket  TicketConfig
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
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
	MaxConns int32  `envconfig:"DB_MAX_CONNS" default:"20"`
}

// Addr empty means the sweep schedule is kept in process.
type RedisConfig struct {
	Addr      string `envconfig:"REDIS_ADDR"`
	Password  string `envconfig:"REDIS_PASSWORD"`
	DB        int    `envconfig:"REDIS_DB" default:"0"`
	KeyPrefix string `envconfig:"REDIS_KEY_PREFIX" default:"cinebook"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Idempotency-Key"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Kolkata"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"19800"` // 5.5*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

type BookingConfig struct {
	HoldDuration       time.Duration `envconfig:"BOOKING_HOLD_DURATION" default:"15m"`
	SweepInterval      time.Duration `envconfig:"BOOKING_SWEEP_INTERVAL" default:"5m"`
	SweepPollInterval  time.Duration `envconfig:"BOOKING_SWEEP_POLL_INTERVAL" default:"30s"`
	SweepLease         time.Duration `envconfig:"BOOKING_SWEEP_LEASE" default:"2m"`
	SweepConcurrency   int           `envconfig:"BOOKING_SWEEP_CONCURRENCY" default:"4"`
	SweepBatchSize     int           `envconfig:"BOOKING_SWEEP_BATCH_SIZE" default:"500"`
	CancelCutoff       time.Duration `envconfig:"BOOKING_CANCEL_CUTOFF" default:"2h"`
	RefundPercent      int64         `envconfig:"BOOKING_REFUND_PERCENT" default:"90"`
	MaxSeatsPerBooking int           `envconfig:"BOOKING_MAX_SEATS" default:"10"`
	ShowTimeZone       string        `envconfig:"BOOKING_SHOW_TIMEZONE" default:"Asia/Kolkata"`
	IdempotencyTTL     time.Duration `envconfig:"BOOKING_IDEMPOTENCY_TTL" default:"24h"`
	IdempotencyLease   time.Duration `envconfig:"BOOKING_IDEMPOTENCY_LEASE" default:"1m"`
}

type PaymentConfig struct {
	BaseURL   string        `envconfig:"PAYMENT_BASE_URL" default:"https://api.razorpay.com"`
	KeyID     string        `envconfig:"PAYMENT_KEY_ID" required:"true"`
	KeySecret string        `envconfig:"PAYMENT_KEY_SECRET" required:"true"`
	Currency  string        `envconfig:"PAYMENT_CURRENCY" default:"INR"`
	Timeout   time.Duration `envconfig:"PAYMENT_TIMEOUT" default:"10s"`
}

type TicketConfig struct {
	QRSize int `envconfig:"TICKET_QR_SIZE" default:"256"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// ShowLocation falls back to UTC when the zone database lacks the configured zone.
func (c BookingConfig) ShowLocation() *time.Location {
	loc, err := time.LoadLocation(c.ShowTimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func LoadConfig() (Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

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
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
			MaxConns: 10,
		},
		Redis: RedisConfig{
			KeyPrefix: "cinebook-test",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Kolkata",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 19800,
		},
		JWT: JWTConfig{
			Secret:   "test-secret",
			Duration: "1h",
		},
		Booking: BookingConfig{
			HoldDuration:       15 * time.Minute,
			SweepInterval:      5 * time.Minute,
			SweepPollInterval:  30 * time.Second,
			SweepLease:         2 * time.Minute,
			SweepConcurrency:   4,
			SweepBatchSize:     500,
			CancelCutoff:       2 * time.Hour,
			RefundPercent:      90,
			MaxSeatsPerBooking: 10,
			ShowTimeZone:       "Asia/Kolkata",
			IdempotencyTTL:     24 * time.Hour,
			IdempotencyLease:   time.Minute,
		},
		Payment: PaymentConfig{
			BaseURL:   "http://localhost:0",
			KeyID:     "rzp_test_key",
			KeySecret: "rzp_test_secret",
			Currency:  "INR",
			Timeout:   2 * time.Second,
		},
		Ticket: TicketConfig{
			QRSize: 256,
		},
	}
}
