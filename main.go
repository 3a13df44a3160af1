package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Ananth-NQI/fleetiva-backend/database"
	"github.com/Ananth-NQI/fleetiva-backend/internal/auth"
	"github.com/Ananth-NQI/fleetiva-backend/internal/config"
	"github.com/Ananth-NQI/fleetiva-backend/internal/jobs"
	"github.com/Ananth-NQI/fleetiva-backend/internal/logger"
	"github.com/Ananth-NQI/fleetiva-backend/internal/metrics"
	"github.com/Ananth-NQI/fleetiva-backend/internal/routes"
	"github.com/Ananth-NQI/fleetiva-backend/internal/services"
	"github.com/Ananth-NQI/fleetiva-backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open store", zap.Error(err))
	}
	log.Info("storage ready", zap.String("driver", cfg.Store.Driver))

	caps := capabilities(ctx, cfg, log)
	m := metrics.NewMetrics("fleetiva")
	tokens := auth.NewTokenService(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL)

	bookings := services.NewBookingService(store, services.BookingConfig{
		FreightRatePerTon:      cfg.Booking.FreightRatePerTon,
		ReleaseTruckOnDelivery: cfg.Booking.ReleaseTruckOnDelivery,
	}, m, log)

	deps := routes.Dependencies{
		Store:        store,
		Resolver:     auth.NewResolver(auth.NewLocalVerifier(tokens, store), auth.NewExternalVerifier(caps.Identity, store)),
		Metrics:      m,
		Capabilities: caps,
		Accounts:     services.NewAccountService(store, tokens, caps, cfg.OTP.TTL, m, log),
		Fleet:        services.NewFleetService(store, log),
		Bookings:     bookings,
		Bilties:      services.NewBiltyService(store, log),
		Admin:        services.NewAdminService(store, log),
		Production:   cfg.IsProduction(),
		CookieTTL:    tokens.TTL(),
	}

	app := routes.NewApp(deps, routes.Options{
		CORSOrigins:  splitOrigins(cfg.HTTP.CORSOrigins),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, log)

	reminders := jobs.NewPaymentReminderJob(bookings, store, caps.SMS, cfg.Jobs.PaymentReminderInterval, m, log)
	reminders.Start(ctx)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		reminders.Stop()
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error("server shutdown failed", zap.Error(err))
		}
	}()

	log.Info("fleetiva api starting",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
		zap.Any("capabilities", caps.Status()),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", zap.Error(err))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(closeCtx); err != nil {
		log.Warn("failed to close store", zap.Error(err))
	}
	if closer, ok := caps.OTP.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		return storage.NewMemoryStore(), nil
	case config.DriverPostgres:
		db, err := database.ConnectPostgres(cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		return storage.NewGormStore(db)
	case config.DriverMongo:
		client, err := database.ConnectMongo(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, err
		}
		return storage.NewMongoStore(ctx, client, cfg.Store.MongoDB, cfg.Store.MongoTransactions, log)
	}
	return nil, errors.New("unknown store driver " + cfg.Store.Driver)
}

// capabilities wires the optional collaborators. Interface fields are only
// assigned when the concrete value exists so that nil checks stay honest.
func capabilities(ctx context.Context, cfg *config.Config, log *zap.Logger) services.Capabilities {
	var caps services.Capabilities

	if otp := otpStore(ctx, cfg, log); otp != nil {
		caps.OTP = otp
	}

	if cfg.Twilio.Configured() {
		sms, err := services.NewTwilioService(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromNumber, log)
		if err != nil {
			log.Warn("twilio unavailable, SMS disabled", zap.Error(err))
		} else {
			caps.SMS = sms
		}
	} else {
		log.Warn("twilio credentials not found, SMS disabled")
	}

	if cfg.Auth.FirebaseCredentialsFile != "" || cfg.Auth.FirebaseProjectID != "" {
		provider, err := auth.NewFirebaseProvider(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentialsFile)
		if err != nil {
			log.Warn("firebase unavailable, external sign-in disabled", zap.Error(err))
		} else {
			caps.Identity = provider
		}
	}

	return caps
}

// otpStore returns nil when password reset has no backing store. The
// returned interface is never a typed nil.
func otpStore(ctx context.Context, cfg *config.Config, log *zap.Logger) services.OTPStore {
	if cfg.OTP.RedisURL != "" {
		otp, err := services.NewRedisOTPStore(ctx, cfg.OTP.RedisURL)
		if err != nil {
			log.Warn("redis unavailable, password reset disabled", zap.Error(err))
			return nil
		}
		return otp
	}
	if cfg.Store.Driver == config.DriverMemory {
		log.Warn("REDIS_URL not set, keeping OTPs in memory")
		return services.NewMemoryOTPStore()
	}
	log.Warn("REDIS_URL not set, password reset disabled")
	return nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
