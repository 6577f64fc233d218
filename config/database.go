package config

import (
	"fmt"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectDB opens the configured database and returns the handle. SQLite is
// the default backend; PostgreSQL is used when DB_TYPE=postgresql or DB_URL
// is set. The handle is owned by the caller and closed via CloseDB.
func ConnectDB() (*gorm.DB, error) {
	dbType := os.Getenv("DB_TYPE")
	if dbType == "" && os.Getenv("DB_URL") != "" {
		dbType = "postgresql"
	}

	var dialector gorm.Dialector
	switch dbType {
	case "postgresql":
		dsn := os.Getenv("DB_URL")
		if dsn == "" {
			dsn = fmt.Sprintf(
				"host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
				envOr("DB_HOST", "localhost"),
				envOr("DB_PORT", "5432"),
				envOr("DB_NAME", "valentino_tree"),
				envOr("DB_USER", "postgres"),
				os.Getenv("DB_PASSWORD"),
				envOr("DB_SSLMODE", "disable"),
			)
		}
		dialector = postgres.Open(dsn)
	default:
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "appointments.db"
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(time.Minute)

	return db, nil
}

// CloseDB closes the handle's underlying connection pool.
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
