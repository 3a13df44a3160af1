package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")

		cfg, err := Load()
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.Equal(t, "development", cfg.Env)
		assert.False(t, cfg.IsProduction())
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, DriverMongo, cfg.Store.Driver)
		assert.True(t, cfg.Store.MongoTransactions)
		assert.Equal(t, 5432, cfg.Postgres.Port)
		assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, 1000.0, cfg.Booking.FreightRatePerTon)
		assert.False(t, cfg.Booking.ReleaseTruckOnDelivery)
		assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
		assert.Equal(t, "console", cfg.Log.Format)
		assert.Zero(t, cfg.Jobs.PaymentReminderInterval)
		assert.False(t, cfg.Twilio.Configured())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")
		t.Setenv("APP_ENV", "production")
		t.Setenv("PORT", "9090")
		t.Setenv("STORE_DRIVER", "Postgres")
		t.Setenv("FREIGHT_RATE_PER_TON", "1250.5")
		t.Setenv("RELEASE_TRUCK_ON_DELIVERY", "true")
		t.Setenv("OTP_TTL_SECONDS", "120")
		t.Setenv("PAYMENT_REMINDER_INTERVAL", "6h")
		t.Setenv("TWILIO_ACCOUNT_SID", "AC1")
		t.Setenv("TWILIO_AUTH_TOKEN", "tok")
		t.Setenv("TWILIO_FROM_NUMBER", "+15550001")

		cfg, err := Load()
		require.NoError(t, err)
		require.NoError(t, cfg.Validate())

		assert.True(t, cfg.IsProduction())
		assert.Equal(t, "9090", cfg.Port)
		assert.Equal(t, DriverPostgres, cfg.Store.Driver)
		assert.Equal(t, 1250.5, cfg.Booking.FreightRatePerTon)
		assert.True(t, cfg.Booking.ReleaseTruckOnDelivery)
		assert.Equal(t, 2*time.Minute, cfg.OTP.TTL)
		assert.Equal(t, 6*time.Hour, cfg.Jobs.PaymentReminderInterval)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.True(t, cfg.Twilio.Configured())
	})

	t.Run("invalid freight rate falls back", func(t *testing.T) {
		t.Setenv("FREIGHT_RATE_PER_TON", "-4")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 1000.0, cfg.Booking.FreightRatePerTon)
	})

	t.Run("legacy memory flag", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", DriverMongo)
		t.Setenv("USE_MEMORY_STORE", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, DriverMemory, cfg.Store.Driver)
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store: StoreConfig{Driver: DriverMongo, MongoURI: "mongodb://localhost:27017"},
			Auth:  AuthConfig{TokenSecret: "x", TokenTTL: time.Hour},
		}
	}
	require.NoError(t, valid().Validate())

	noSecret := valid()
	noSecret.Auth.TokenSecret = ""
	assert.ErrorContains(t, noSecret.Validate(), "ACCESS_TOKEN_SECRET")

	badDriver := valid()
	badDriver.Store.Driver = "cassandra"
	assert.ErrorContains(t, badDriver.Validate(), "unknown STORE_DRIVER")

	noURI := valid()
	noURI.Store.MongoURI = ""
	assert.Error(t, noURI.Validate())
}
