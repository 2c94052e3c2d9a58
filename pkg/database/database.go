package database

import (
	"catalog-service/internal/model"
	"catalog-service/pkg/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Init opens the PostgreSQL connection, configures the pool and runs
// migrations. The returned handle is what gets injected into services
// and middleware.
func Init(cfg *config.Config) (*gorm.DB, error) {
	logLevel := cfg.DB.LogLevel
	if logLevel == 0 {
		logLevel = logger.Warn
	}

	// PreferSimpleProtocol avoids "prepared statement already exists"
	// errors behind connection poolers.
	pgConfig := postgres.Config{
		DSN:                  cfg.DB.GetDSN(),
		PreferSimpleProtocol: true,
	}

	handle, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := handle.DB()
	if err != nil {
		return nil, err
	}

	if cfg.DB.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.DB.MaxIdleConns)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}
	if cfg.DB.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.DB.ConnMaxLifetime)
	}

	if err := Migrate(handle); err != nil {
		return nil, err
	}

	return handle, nil
}

// Migrate creates or updates the schema, parents before children.
func Migrate(handle *gorm.DB) error {
	return handle.AutoMigrate(
		&model.Hotel{},
		&model.User{},
		&model.Category{},
		&model.CategoryAttributeDefinition{},
		&model.CategoryAttributeOption{},
		&model.Product{},
		&model.ProductCategory{},
		&model.ProductVariantGroup{},
		&model.ProductVariantOption{},
		&model.ProductAttributeValue{},
		&model.ProductCustomAttribute{},
		&model.ProductBundleItem{},
	)
}
