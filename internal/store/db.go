package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/SergeyParamoshkin/sportsnews/internal/model"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to Postgres when dsn looks like a Postgres URL or keyword
// DSN, and to a SQLite file (or ":memory:") otherwise.
func Open(dsn string, verbose bool) (*gorm.DB, error) {
	level := logger.Warn
	if verbose {
		level = logger.Info
	}

	db, err := gorm.Open(dialector(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
		// Articles may outlive their author.
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if isSQLite(dsn) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Admin{}, &model.Article{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	return nil
}

func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

func dialector(dsn string) gorm.Dialector {
	if isSQLite(dsn) {
		return sqlite.Open(dsn)
	}

	return postgres.Open(dsn)
}

func isSQLite(dsn string) bool {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return false
	case strings.Contains(dsn, "host=") && strings.Contains(dsn, "dbname="):
		return false
	default:
		return true
	}
}
