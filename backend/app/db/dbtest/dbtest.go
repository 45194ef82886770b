// Package dbtest opens throwaway migrated SQLite databases for tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"feedback-board/backend/app/db"
	"feedback-board/backend/config"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns a migrated database living in t's temp dir. It is closed when
// the test ends.
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect(config.DB{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "feedback.db"),
	}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}
