// Package job contains scheduled maintenance jobs run by the web server.
package job

import (
	"todo-web/database"
	"todo-web/logger"
)

// CheckpointJob flushes the SQLite write-ahead log into the main file so
// it does not grow unbounded between restarts.
type CheckpointJob struct{}

func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

func (j *CheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("wal checkpoint failed:", err)
	}
}
