package db

import (
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/projcalc/estimator/internal/config"
	"github.com/projcalc/estimator/internal/modules/model"
)

var sslmodeRe = regexp.MustCompile(`(?i)\bsslmode\s*=\s*\w+`)

// DSN returns the configured DSN, forcing sslmode=require when TLS is on.
func DSN(cfg config.DBCfg) string {
	dsn := cfg.DSN
	if !cfg.EnableTLS {
		return dsn
	}
	if sslmodeRe.MatchString(dsn) {
		return sslmodeRe.ReplaceAllString(dsn, "sslmode=require")
	}
	if !strings.HasSuffix(dsn, " ") {
		dsn += " "
	}
	return dsn + "sslmode=require"
}

func New(cfg *config.Config) (*gorm.DB, error) {
	gcfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg.Database)), gcfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdle)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)
	return db, nil
}

// Migrate creates or alters every table the estimator owns.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	start := time.Now()
	if err := db.AutoMigrate(model.All()...); err != nil {
		return err
	}
	log.Info("database migrated", zap.Duration("took", time.Since(start)))
	return nil
}

// RegisterOpenTelemetryPlugin must run after telemetry.SetupTracing so the
// plugin picks up the global tracer provider.
func RegisterOpenTelemetryPlugin(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin())
}
