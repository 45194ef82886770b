package db

import (
	"fmt"
	"strings"
	"time"

	"feedback-board/backend/app/models"
	"feedback-board/backend/config"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect opens the configured database. SQLite connections are opened with
// foreign key enforcement on so feedback rows cascade with their owner.
func Connect(cfg config.DB, logger zerolog.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}
	gdb, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zerologWriter{logger.With().Str("component", "gorm").Logger()}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	if cfg.Driver == "sqlite" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, err
		}
		// one writer keeps sqlite from reporting "database is locked" under load
		sqlDB.SetMaxOpenConns(1)
	}
	return gdb, nil
}

// Migrate creates or updates the users and feedback tables.
func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&models.User{}, &models.Feedback{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func dialectorFor(cfg config.DB) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		dsn := cfg.Path
		if strings.ContainsRune(dsn, '?') {
			dsn += "&"
		} else {
			dsn += "?"
		}
		dsn += "_foreign_keys=1&_busy_timeout=5000"
		return sqlite.Open(dsn), nil
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", cfg.Host, cfg.Port, cfg.User, cfg.Pass, cfg.Name, cfg.SSLMode)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
}

type zerologWriter struct{ l zerolog.Logger }

func (w zerologWriter) Printf(format string, args ...interface{}) {
	w.l.WithLevel(gormLevel(format, args)).Msgf(format, args...)
}

// gormLevel recovers the severity gorm's logger flattens into a format
// string. Failed statements carry the error as an argument and slow ones a
// "SLOW SQL" note.
func gormLevel(format string, args []interface{}) zerolog.Level {
	switch {
	case strings.Contains(format, "[error]"):
		return zerolog.ErrorLevel
	case strings.Contains(format, "[warn]"):
		return zerolog.WarnLevel
	case strings.Contains(format, "[info]"):
		return zerolog.InfoLevel
	}
	for _, arg := range args {
		switch v := arg.(type) {
		case error:
			return zerolog.ErrorLevel
		case string:
			if strings.HasPrefix(v, "SLOW SQL") {
				return zerolog.WarnLevel
			}
		}
	}
	return zerolog.DebugLevel
}
