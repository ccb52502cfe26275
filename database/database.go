package database

import (
	"fmt"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func New(config *viper.Viper) *gorm.DB {
	db, err := gorm.Open(Dialector(config), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		panic(fmt.Errorf("failed to connect database: %w", err))
	}

	return db
}

// Dialector picks the driver from database.driver; sqlite is meant for local runs and tests.
func Dialector(config *viper.Viper) gorm.Dialector {
	if config.GetString("database.driver") == "sqlite" {
		return sqlite.Open(config.GetString("database.path"))
	}

	sslmode := config.GetString("database.sslmode")
	if sslmode == "" {
		sslmode = "disable"
	}
	timezone := config.GetString("database.timezone")
	if timezone == "" {
		timezone = "UTC"
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		config.GetString("database.host"),
		config.GetString("database.username"),
		config.GetString("database.password"),
		config.GetString("database.dbname"),
		config.GetInt("database.port"),
		sslmode,
		timezone,
	)
	return postgres.Open(dsn)
}
