package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const defaultFreightRatePerTon = 1000.0

// Config holds all application configuration
type Config struct {
	Env  string
	Port string

	Store    StoreConfig
	Postgres PostgresConfig
	Auth     AuthConfig
	Booking  BookingConfig
	OTP      OTPConfig
	Twilio   TwilioConfig
	HTTP     HTTPConfig
	Log      LogConfig
	Jobs     JobsConfig
}

// StoreConfig selects and configures the persistence backend
type StoreConfig struct {
	Driver            string
	MongoURI          string
	MongoDB           string
	MongoTransactions bool
}

// PostgresConfig holds relational database connection settings
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	// InstanceConnectionName switches to the Cloud SQL unix socket when set.
	InstanceConnectionName string
}

// AuthConfig holds token and identity provider settings
type AuthConfig struct {
	TokenSecret             string
	TokenTTL                time.Duration
	FirebaseCredentialsFile string
	FirebaseProjectID       string
}

// BookingConfig holds pricing and lifecycle settings
type BookingConfig struct {
	FreightRatePerTon      float64
	ReleaseTruckOnDelivery bool
}

// OTPConfig holds password reset code settings
type OTPConfig struct {
	TTL      time.Duration
	RedisURL string
}

// TwilioConfig holds SMS provider credentials
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// Configured reports whether every credential is present.
func (t TwilioConfig) Configured() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.FromNumber != ""
}

// HTTPConfig holds HTTP server settings
type HTTPConfig struct {
	CORSOrigins  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// JobsConfig holds background job schedules. A zero interval disables a job.
type JobsConfig struct {
	PaymentReminderInterval time.Duration
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:  strings.ToLower(v.GetString("APP_ENV")),
		Port: v.GetString("PORT"),
		Store: StoreConfig{
			Driver:            strings.ToLower(v.GetString("STORE_DRIVER")),
			MongoURI:          v.GetString("MONGODB_URI"),
			MongoDB:           v.GetString("MONGO_DB"),
			MongoTransactions: v.GetBool("MONGO_TRANSACTIONS"),
		},
		Postgres: PostgresConfig{
			Host:                   v.GetString("DB_HOST"),
			Port:                   v.GetInt("DB_PORT"),
			User:                   v.GetString("DB_USER"),
			Password:               v.GetString("DB_PASS"),
			Name:                   v.GetString("DB_NAME"),
			InstanceConnectionName: v.GetString("INSTANCE_CONNECTION_NAME"),
		},
		Auth: AuthConfig{
			TokenSecret:             v.GetString("ACCESS_TOKEN_SECRET"),
			TokenTTL:                v.GetDuration("ACCESS_TOKEN_TTL"),
			FirebaseCredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
			FirebaseProjectID:       v.GetString("FIREBASE_PROJECT_ID"),
		},
		Booking: BookingConfig{
			FreightRatePerTon:      v.GetFloat64("FREIGHT_RATE_PER_TON"),
			ReleaseTruckOnDelivery: v.GetBool("RELEASE_TRUCK_ON_DELIVERY"),
		},
		OTP: OTPConfig{
			TTL:      time.Duration(v.GetInt("OTP_TTL_SECONDS")) * time.Second,
			RedisURL: v.GetString("REDIS_URL"),
		},
		Twilio: TwilioConfig{
			AccountSID: v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:  v.GetString("TWILIO_AUTH_TOKEN"),
			FromNumber: v.GetString("TWILIO_FROM_NUMBER"),
		},
		HTTP: HTTPConfig{
			CORSOrigins:  v.GetString("CORS_ORIGINS"),
			ReadTimeout:  v.GetDuration("READ_TIMEOUT"),
			WriteTimeout: v.GetDuration("WRITE_TIMEOUT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Jobs: JobsConfig{
			PaymentReminderInterval: v.GetDuration("PAYMENT_REMINDER_INTERVAL"),
		},
	}

	if v.GetBool("USE_MEMORY_STORE") {
		cfg.Store.Driver = DriverMemory
	}
	if cfg.Booking.FreightRatePerTon <= 0 {
		cfg.Booking.FreightRatePerTon = defaultFreightRatePerTon
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		}
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "fleetiva")
	v.SetDefault("MONGO_TRANSACTIONS", true)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "fleetiva")
	v.SetDefault("ACCESS_TOKEN_TTL", "168h")
	v.SetDefault("FREIGHT_RATE_PER_TON", defaultFreightRatePerTon)
	v.SetDefault("OTP_TTL_SECONDS", 600)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("RELEASE_TRUCK_ON_DELIVERY", false)
	v.SetDefault("PAYMENT_REMINDER_INTERVAL", "0s")
	v.SetDefault("READ_TIMEOUT", "15s")
	v.SetDefault("WRITE_TIMEOUT", "30s")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Auth.TokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET is required")
	}
	switch c.Store.Driver {
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return errors.New("MONGODB_URI is required for the mongo store")
		}
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}
	return nil
}
