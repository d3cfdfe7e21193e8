package database

import (
	"fmt"

	"github.com/Kyz7/backoffice/internal/config"
	"github.com/Kyz7/backoffice/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode,
	)

	gormCfg := &gorm.Config{}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil {
		return nil, err
	}

	DB = db

	return db, nil
}

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.UserRole{},
		&models.RefreshToken{},
		&models.Admin{},
		&models.AdminPermission{},
		&models.AdminActivityLog{},
		&models.Category{},
		&models.Brand{},
		&models.Listing{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := models.EnsureEnum(db); err != nil {
		return fmt.Errorf("failed to create listing_status enum: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Msg("Database migrated successfully")
	return nil
}
