package database

import (
	"database/sql"

	"todo-web/database/model"

	_ "github.com/mattn/go-sqlite3"
)

// sqlStore implements Store with hand-written parameterized queries on
// database/sql. Semantically identical to gormStore: every statement
// filters by (id, user_id) and mutations check the affected row count.
type sqlStore struct {
	db *sql.DB
}

func openSQLStore(dbPath string) (*sqlStore, error) {
	dsn := dbPath
	if !isMemoryDSN(dsn) {
		dsn += "?cache=shared&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	s := &sqlStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *sqlStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			user_id INTEGER NOT NULL REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			completed INTEGER NOT NULL DEFAULT 0,
			user_id INTEGER NOT NULL REFERENCES users(id),
			category_id INTEGER REFERENCES categories(id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}

// affectedOrNotFound converts a zero-row mutation into ErrNotFound so a
// silent no-op on a foreign id is never reported as success.
func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqlStore) CreateUser(username, passwordHash string) (*model.User, error) {
	res, err := s.db.Exec(
		`INSERT INTO users (username, password) VALUES (?, ?)`,
		username, passwordHash,
	)
	if isUniqueViolation(err) {
		return nil, ErrDuplicateUsername
	}
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.User{Id: int(id), Username: username, Password: passwordHash}, nil
}

func (s *sqlStore) GetUserByUsername(username string) (*model.User, error) {
	user := &model.User{}
	err := s.db.QueryRow(
		`SELECT id, username, password FROM users WHERE username = ?`,
		username,
	).Scan(&user.Id, &user.Username, &user.Password)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *sqlStore) ListCategories(userId int) ([]model.Category, error) {
	rows, err := s.db.Query(
		`SELECT id, name, user_id FROM categories WHERE user_id = ? ORDER BY id`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.Id, &c.Name, &c.UserId); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *sqlStore) CreateCategory(category *model.Category) error {
	res, err := s.db.Exec(
		`INSERT INTO categories (name, user_id) VALUES (?, ?)`,
		category.Name, category.UserId,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	category.Id = int(id)
	return nil
}

func (s *sqlStore) GetCategory(id, userId int) (*model.Category, error) {
	category := &model.Category{}
	err := s.db.QueryRow(
		`SELECT id, name, user_id FROM categories WHERE id = ? AND user_id = ?`,
		id, userId,
	).Scan(&category.Id, &category.Name, &category.UserId)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return category, nil
}

func (s *sqlStore) UpdateCategory(id, userId int, name string) error {
	return affectedOrNotFound(s.db.Exec(
		`UPDATE categories SET name = ? WHERE id = ? AND user_id = ?`,
		name, id, userId,
	))
}

func (s *sqlStore) DeleteCategory(id, userId int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`UPDATE tasks SET category_id = NULL WHERE category_id = ? AND user_id = ?`,
		id, userId,
	)
	if err != nil {
		return err
	}
	err = affectedOrNotFound(tx.Exec(
		`DELETE FROM categories WHERE id = ? AND user_id = ?`,
		id, userId,
	))
	if err != nil {
		return err
	}
	return tx.Commit()
}

func (s *sqlStore) ListTasks(userId int) ([]model.TaskWithCategory, error) {
	rows, err := s.db.Query(
		`SELECT tasks.id, tasks.title, tasks.description, tasks.completed,
		        tasks.user_id, tasks.category_id,
		        COALESCE(categories.name, '') AS category_name
		 FROM tasks
		 LEFT JOIN categories ON categories.id = tasks.category_id
		 WHERE tasks.user_id = ?
		 ORDER BY tasks.id`,
		userId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.TaskWithCategory
	for rows.Next() {
		var t model.TaskWithCategory
		var categoryId sql.NullInt64
		err := rows.Scan(&t.Id, &t.Title, &t.Description, &t.Completed,
			&t.UserId, &categoryId, &t.CategoryName)
		if err != nil {
			return nil, err
		}
		if categoryId.Valid {
			id := int(categoryId.Int64)
			t.CategoryId = &id
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *sqlStore) CreateTask(task *model.Task) error {
	res, err := s.db.Exec(
		`INSERT INTO tasks (title, description, completed, user_id, category_id)
		 VALUES (?, ?, ?, ?, ?)`,
		task.Title, task.Description, task.Completed, task.UserId, task.CategoryId,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	task.Id = int(id)
	return nil
}

func (s *sqlStore) GetTask(id, userId int) (*model.Task, error) {
	task := &model.Task{}
	var categoryId sql.NullInt64
	err := s.db.QueryRow(
		`SELECT id, title, description, completed, user_id, category_id
		 FROM tasks WHERE id = ? AND user_id = ?`,
		id, userId,
	).Scan(&task.Id, &task.Title, &task.Description, &task.Completed,
		&task.UserId, &categoryId)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if categoryId.Valid {
		cid := int(categoryId.Int64)
		task.CategoryId = &cid
	}
	return task, nil
}

func (s *sqlStore) UpdateTask(id, userId int, fields TaskFields) error {
	return affectedOrNotFound(s.db.Exec(
		`UPDATE tasks SET title = ?, description = ?, completed = ?, category_id = ?
		 WHERE id = ? AND user_id = ?`,
		fields.Title, fields.Description, fields.Completed, fields.CategoryId,
		id, userId,
	))
}

func (s *sqlStore) DeleteTask(id, userId int) error {
	return affectedOrNotFound(s.db.Exec(
		`DELETE FROM tasks WHERE id = ? AND user_id = ?`,
		id, userId,
	))
}

func (s *sqlStore) SetTaskCompleted(id, userId int, completed bool) error {
	return affectedOrNotFound(s.db.Exec(
		`UPDATE tasks SET completed = ? WHERE id = ? AND user_id = ?`,
		completed, id, userId,
	))
}
