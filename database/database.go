package database

import (
	"fmt"
	"lms/config"
	"lms/models"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DbInstance struct holds the database connection instance
type DbInstance struct {
	Db *gorm.DB
}

// Database is the global database instance
var Database DbInstance

// ConnectDb opens the configured database, migrates it and stores the handle globally
func ConnectDb() {
	dialector, err := dialectorFor(config.AppConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Unsupported database configuration")
		os.Exit(2)
	}

	gormLogger := logger.Default.LogMode(logger.Warn)
	if !config.AppConfig.IsProduction() && config.AppConfig.LogLevel == "debug" {
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		log.Fatal().Err(err).Str("driver", config.AppConfig.DBDriver).Msg("Failed to connect to database")
		os.Exit(2)
	}

	// Set up connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get database instance")
	}

	sqlDB.SetMaxOpenConns(10)   // Maximum open connections
	sqlDB.SetMaxIdleConns(5)    // Maximum idle connections
	sqlDB.SetConnMaxLifetime(0) // No timeout

	if err := RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	Database = DbInstance{Db: db}
}

func dialectorFor(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "postgres", "":
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
		)
		return postgres.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "sqlite":
		// DB_NAME is the database file path for sqlite
		return sqlite.Open(cfg.DBName), nil
	default:
		return nil, errors.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// RunMigrations performs database migrations
func RunMigrations(db *gorm.DB) error {
	log.Info().Msg("Running Migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Permission{},
		&models.Category{},
		&models.Course{},
		&models.Attachment{},
		&models.Chapter{},
		&models.MuxData{},
		&models.UserProgress{},
		&models.Purchase{},
		&models.StripeCustomer{},
		&models.CheckoutSession{},
		&models.PaymentEvent{},
	)
	if err != nil {
		return errors.Wrap(err, "auto migrate")
	}

	log.Info().Msg("Migrations completed successfully.")
	return nil
}
