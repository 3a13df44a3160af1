package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Ananth-NQI/fleetiva-backend/internal/config"
	"github.com/Ananth-NQI/fleetiva-backend/internal/logger"
)

// cloudSQLSocketDir is where Cloud Run mounts Cloud SQL instances
const cloudSQLSocketDir = "/cloudsql"

// PostgresDSN builds the connection string. With an instance connection name
// it targets the Cloud SQL unix socket, otherwise host and port over TCP.
func PostgresDSN(cfg config.PostgresConfig) string {
	if cfg.InstanceConnectionName != "" {
		return fmt.Sprintf("host=%s/%s user=%s password=%s dbname=%s sslmode=disable",
			cloudSQLSocketDir, cfg.InstanceConnectionName, cfg.User, cfg.Password, cfg.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)
}

// ConnectPostgres opens a gorm connection logging through zap
func ConnectPostgres(cfg config.PostgresConfig, log *zap.Logger) (*gorm.DB, error) {
	if cfg.InstanceConnectionName != "" {
		log.Info("connecting to Cloud SQL via socket", zap.String("instance", cfg.InstanceConnectionName))
	} else {
		log.Info("connecting to PostgreSQL", zap.String("host", cfg.Host), zap.Int("port", cfg.Port))
	}

	db, err := gorm.Open(postgres.Open(PostgresDSN(cfg)), &gorm.Config{
		Logger:         logger.NewGormLogger(log, gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	log.Info("database connected")
	return db, nil
}
