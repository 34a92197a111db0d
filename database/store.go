package database

import (
	"errors"

	"todo-web/database/model"
)

var (
	// ErrNotFound is reported both when an entity does not exist and when
	// it exists under another owner. Callers cannot tell the two apart.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateUsername is reported when registration collides with an
	// existing username.
	ErrDuplicateUsername = errors.New("username already exists")
)

// TaskFields holds the mutable fields of a task for a full update. The
// id and owner are not part of it; they never change.
type TaskFields struct {
	Title       string
	Description string
	Completed   bool
	CategoryId  *int
}

// Store is the persistence collaborator. Every category and task
// operation is scoped by (id, owner) — never by id alone — so a caller
// can only ever see or touch its own rows. Two implementations exist:
// gormStore (the default) and sqlStore (raw queries on database/sql).
type Store interface {
	CreateUser(username, passwordHash string) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)

	ListCategories(userId int) ([]model.Category, error)
	CreateCategory(category *model.Category) error
	GetCategory(id, userId int) (*model.Category, error)
	UpdateCategory(id, userId int, name string) error
	DeleteCategory(id, userId int) error

	ListTasks(userId int) ([]model.TaskWithCategory, error)
	CreateTask(task *model.Task) error
	GetTask(id, userId int) (*model.Task, error)
	UpdateTask(id, userId int, fields TaskFields) error
	DeleteTask(id, userId int) error
	SetTaskCompleted(id, userId int, completed bool) error

	Close() error
}

// IsNotFound reports whether err signals a missing or foreign entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
