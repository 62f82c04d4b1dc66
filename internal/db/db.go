package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/models"
)

// NewDB opens the postgres pool. Schema changes are left to Migrate so the
// API process and the migrate command can run them separately.
func NewDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	logLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	logger.Info("database connected", zap.Int("max_open_conns", cfg.DBMaxOpenConns))
	return db, nil
}

// partialIndexes enforce the invariants the use cases rely on under
// concurrency. The statements are valid on both postgres and sqlite.
var partialIndexes = []string{
	// one live booking per (tenant, professional, date, time)
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_active_slot
		ON appointments (tenant_id, COALESCE(professional_id, 0), "date", "time")
		WHERE status <> 'canceled' AND origin <> 'quick_sale'`,

	`CREATE UNIQUE INDEX IF NOT EXISTS ux_operating_hours_general
		ON operating_hours (tenant_id, day_of_week)
		WHERE professional_id IS NULL`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_operating_hours_professional
		ON operating_hours (tenant_id, day_of_week, professional_id)
		WHERE professional_id IS NOT NULL`,

	`CREATE UNIQUE INDEX IF NOT EXISTS ux_clients_tenant_phone
		ON clients (tenant_id, phone)
		WHERE phone <> ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_clients_tenant_identity
		ON clients (tenant_id, auth_identity)
		WHERE auth_identity IS NOT NULL`,
}

// Migrate brings the schema up to date: tables through AutoMigrate, then the
// partial unique indexes gorm tags cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.CatalogItem{},
		&models.OperatingHours{},
		&models.Client{},
		&models.Appointment{},
		&models.AppointmentLineItem{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}

	for _, stmt := range partialIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}

	if err := db.Exec(`
		UPDATE tenants
		SET timezone = 'America/Sao_Paulo'
		WHERE timezone IS NULL OR timezone = ''
	`).Error; err != nil {
		return fmt.Errorf("backfill timezone: %w", err)
	}

	return nil
}
