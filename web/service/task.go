package service

import (
	"strings"

	"todo-web/database"
	"todo-web/database/model"
	"todo-web/util/common"
)

type TaskService struct {
	categoryService CategoryService
}

// List returns the caller's tasks with category names resolved by the
// store in a single joined query.
func (s *TaskService) List(userId int) ([]model.TaskWithCategory, error) {
	return database.GetStore().ListTasks(userId)
}

// Create stores a task owned by userId. A category id that does not
// resolve to one of the caller's own categories is stored as NULL.
func (s *TaskService) Create(userId int, title, description string, categoryId *int) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.NewError("task title can not be empty")
	}

	categoryId, err := s.categoryService.resolveCategory(categoryId, userId)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       title,
		Description: description,
		UserId:      userId,
		CategoryId:  categoryId,
	}
	if err := database.GetStore().CreateTask(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) Get(id, userId int) (*model.Task, error) {
	return database.GetStore().GetTask(id, userId)
}

// Update edits the mutable fields of an owned task. Owner and id never
// change; a foreign or missing id yields database.ErrNotFound.
func (s *TaskService) Update(id, userId int, fields database.TaskFields) error {
	fields.Title = strings.TrimSpace(fields.Title)
	if fields.Title == "" {
		return common.NewError("task title can not be empty")
	}

	categoryId, err := s.categoryService.resolveCategory(fields.CategoryId, userId)
	if err != nil {
		return err
	}
	fields.CategoryId = categoryId

	return database.GetStore().UpdateTask(id, userId, fields)
}

func (s *TaskService) Delete(id, userId int) error {
	return database.GetStore().DeleteTask(id, userId)
}

// SetCompleted flips the completed flag of an owned task. The store
// checks affected rows, so a foreign task reports ErrNotFound instead
// of a silently successful no-op.
func (s *TaskService) SetCompleted(id, userId int, completed bool) error {
	return database.GetStore().SetTaskCompleted(id, userId, completed)
}
