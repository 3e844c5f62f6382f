package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Options struct {
	Debug        bool // log every statement
	MaxIdleConns int
	MaxOpenConns int
}

func DefaultOptions() Options {
	return Options{MaxIdleConns: 10, MaxOpenConns: 100}
}

func getLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)
}

func configureConnectionPool(db *gorm.DB, opts Options) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	return nil
}

func NewGormDBFromDSN(dsn string, opts Options) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database connection string")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: getLogger(opts.Debug),
	})
	if err != nil {
		return nil, err
	}

	if err := configureConnectionPool(db, opts); err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureExtensions installs the Postgres extensions the schema relies on.
func EnsureExtensions(db *gorm.DB) error {
	for _, ext := range []string{"pgcrypto", "vector"} {
		if err := db.Exec(fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %s", ext)).Error; err != nil {
			return fmt.Errorf("create extension %s: %w", ext, err)
		}
	}
	return nil
}

// Migrate installs extensions, auto-migrates models and then runs post
// statements. Post statements must be idempotent.
func Migrate(db *gorm.DB, models []interface{}, post ...string) error {
	if err := EnsureExtensions(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range post {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("post migration: %w", err)
		}
	}
	return nil
}
