package database

import (
	"todo-web/config"
	"todo-web/database/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormStore implements Store on top of gorm. Ownership scoping is done
// with explicit (id, user_id) WHERE clauses; relationship traversal is
// never used for owner checks.
type gormStore struct {
	db *gorm.DB
}

func openGormStore(dbPath string) (*gormStore, error) {
	var gormLogger logger.Interface
	if config.IsDebug() {
		gormLogger = logger.Default
	} else {
		gormLogger = logger.Discard
	}

	c := &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	}

	dsn := dbPath
	if !isMemoryDSN(dsn) {
		dsn += "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL"
	}
	db, err := gorm.Open(sqlite.Open(dsn), c)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&model.User{}, &model.Category{}, &model.Task{}); err != nil {
		return nil, err
	}

	return &gormStore{db: db}, nil
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *gormStore) CreateUser(username, passwordHash string) (*model.User, error) {
	user := &model.User{Username: username, Password: passwordHash}
	err := s.db.Create(user).Error
	if isUniqueViolation(err) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *gormStore) GetUserByUsername(username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if isGormNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *gormStore) ListCategories(userId int) ([]model.Category, error) {
	var categories []model.Category
	err := s.db.Where("user_id = ?", userId).
		Order("id").
		Find(&categories).
		Error
	return categories, err
}

func (s *gormStore) CreateCategory(category *model.Category) error {
	return s.db.Create(category).Error
}

func (s *gormStore) GetCategory(id, userId int) (*model.Category, error) {
	category := &model.Category{}
	err := s.db.Where("id = ? AND user_id = ?", id, userId).
		First(category).
		Error
	if isGormNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *gormStore) UpdateCategory(id, userId int, name string) error {
	result := s.db.Model(model.Category{}).
		Where("id = ? AND user_id = ?", id, userId).
		Update("name", name)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes the category and nulls the reference on every
// task that pointed at it. Tasks themselves survive.
func (s *gormStore) DeleteCategory(id, userId int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(model.Task{}).
			Where("category_id = ? AND user_id = ?", id, userId).
			Update("category_id", gorm.Expr("NULL")).
			Error
		if err != nil {
			return err
		}
		result := tx.Where("id = ? AND user_id = ?", id, userId).
			Delete(&model.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (s *gormStore) ListTasks(userId int) ([]model.TaskWithCategory, error) {
	var tasks []model.TaskWithCategory
	err := s.db.Table("tasks").
		Select("tasks.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = tasks.category_id").
		Where("tasks.user_id = ?", userId).
		Order("tasks.id").
		Scan(&tasks).
		Error
	return tasks, err
}

func (s *gormStore) CreateTask(task *model.Task) error {
	return s.db.Create(task).Error
}

func (s *gormStore) GetTask(id, userId int) (*model.Task, error) {
	task := &model.Task{}
	err := s.db.Where("id = ? AND user_id = ?", id, userId).
		First(task).
		Error
	if isGormNotFound(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *gormStore) UpdateTask(id, userId int, fields TaskFields) error {
	result := s.db.Model(model.Task{}).
		Where("id = ? AND user_id = ?", id, userId).
		Updates(map[string]any{
			"title":       fields.Title,
			"description": fields.Description,
			"completed":   fields.Completed,
			"category_id": fields.CategoryId,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) DeleteTask(id, userId int) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userId).
		Delete(&model.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) SetTaskCompleted(id, userId int, completed bool) error {
	result := s.db.Model(model.Task{}).
		Where("id = ? AND user_id = ?", id, userId).
		Update("completed", completed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
