package service

import (
	"os"
	"path/filepath"
	"testing"

	"todo-web/database"
	"todo-web/logger"

	"github.com/op/go-logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger(logging.ERROR)
	os.Exit(m.Run())
}

func initTestDB(t *testing.T) {
	t.Helper()
	if err := database.InitDB(filepath.Join(t.TempDir(), "todo.db")); err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}
	t.Cleanup(func() {
		if err := database.CloseDB(); err != nil {
			t.Errorf("CloseDB() error: %v", err)
		}
	})
}
