// Package config exposes the environment-driven configuration of the
// to-do panel. Values are read lazily so tests can override them.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed version
var version string

//go:embed name
var name string

type LogLevel string

const (
	Debug LogLevel = "debug"
	Info  LogLevel = "info"
	Warn  LogLevel = "warn"
	Error LogLevel = "error"
)

// StoreVariant selects the persistence implementation.
type StoreVariant string

const (
	// StoreGorm is the ORM-backed store and the default.
	StoreGorm StoreVariant = "gorm"
	// StoreSQL is the raw-query store on database/sql.
	StoreSQL StoreVariant = "sql"
)

func GetVersion() string {
	return strings.TrimSpace(version)
}

func GetName() string {
	return strings.TrimSpace(name)
}

func GetLogLevel() LogLevel {
	if IsDebug() {
		return Debug
	}
	logLevel := os.Getenv("TODO_LOG_LEVEL")
	if logLevel == "" {
		return Info
	}
	return LogLevel(logLevel)
}

func IsDebug() bool {
	return os.Getenv("TODO_DEBUG") == "true"
}

func GetListen() string {
	return os.Getenv("TODO_LISTEN")
}

func GetPort() string {
	port := os.Getenv("TODO_PORT")
	if port == "" {
		port = "5001"
	}
	return port
}

// GetSessionSecret returns the cookie-store key. An empty value makes the
// server generate a random one at startup, which invalidates sessions on
// every restart.
func GetSessionSecret() string {
	return os.Getenv("TODO_SESSION_SECRET")
}

// GetSessionMaxAge returns the session lifetime in minutes.
func GetSessionMaxAge() int {
	return 60
}

func GetStoreVariant() StoreVariant {
	if os.Getenv("TODO_STORE") == string(StoreSQL) {
		return StoreSQL
	}
	return StoreGorm
}

func GetDBFolderPath() string {
	dbFolderPath := os.Getenv("TODO_DB_FOLDER")
	if dbFolderPath == "" {
		dbFolderPath = "db"
	}
	return dbFolderPath
}

func GetDBPath() string {
	return fmt.Sprintf("%s/%s.db", GetDBFolderPath(), GetName())
}

func GetLogFolder() string {
	logFolderPath := os.Getenv("TODO_LOG_FOLDER")
	if logFolderPath == "" {
		logFolderPath = "log"
	}
	return logFolderPath
}
