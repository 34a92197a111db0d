// Package database opens the SQLite store of the to-do panel and exposes
// it behind the Store interface. TODO_STORE selects between the gorm
// implementation and the raw database/sql one; both serve the same schema.
package database

import (
	"io/fs"
	"os"
	"path"
	"strings"

	"todo-web/config"

	"gorm.io/gorm"
)

var store Store

// InitDB opens the database at dbPath, runs migrations and installs the
// store variant selected by configuration.
func InitDB(dbPath string) error {
	if !isMemoryDSN(dbPath) {
		dir := path.Dir(dbPath)
		if err := os.MkdirAll(dir, fs.ModePerm); err != nil {
			return err
		}
	}

	var err error
	switch config.GetStoreVariant() {
	case config.StoreSQL:
		store, err = openSQLStore(dbPath)
	default:
		store, err = openGormStore(dbPath)
	}
	return err
}

// GetStore returns the active store. InitDB must have succeeded first.
func GetStore() Store {
	return store
}

// CloseDB checkpoints the WAL and closes the underlying connection.
func CloseDB() error {
	if store == nil {
		return nil
	}
	err := store.Close()
	store = nil
	return err
}

// Checkpoint flushes the SQLite write-ahead log into the main database
// file. Run periodically and before shutdown.
func Checkpoint() error {
	switch s := store.(type) {
	case *gormStore:
		return s.db.Exec("PRAGMA wal_checkpoint;").Error
	case *sqlStore:
		_, err := s.db.Exec("PRAGMA wal_checkpoint;")
		return err
	}
	return nil
}

// isMemoryDSN reports whether dbPath names an in-memory database, which
// needs neither a parent directory nor journal tuning.
func isMemoryDSN(dbPath string) bool {
	return strings.Contains(dbPath, ":memory:") || strings.Contains(dbPath, "mode=memory")
}

// isGormNotFound maps the ORM sentinel onto the store taxonomy.
func isGormNotFound(err error) bool {
	return err == gorm.ErrRecordNotFound
}

// isUniqueViolation detects the SQLite unique-constraint error shared by
// both driver paths.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
