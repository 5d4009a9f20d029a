package database

import (
	"strings"

	"github.com/selin/goaltrack-api/internal/config"
	"github.com/selin/goaltrack-api/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open connects to PostgreSQL when the URL looks like a postgres DSN,
// otherwise treats it as a SQLite file path.
func Open(databaseURL string, verbose bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(databaseURL, "postgres") {
		dialector = postgres.Open(databaseURL)
	} else {
		dialector = sqlite.Open(databaseURL)
	}

	logMode := logger.Silent
	if verbose {
		logMode = logger.Info
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
}

func Connect(cfg *config.Config) error {
	db, err := Open(cfg.DatabaseURL, cfg.Env == "development")
	if err != nil {
		return err
	}

	DB = db
	return nil
}

func Migrate() error {
	return DB.AutoMigrate(
		&models.User{},
		&models.Goal{},
	)
}
