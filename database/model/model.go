// Package model defines the persisted entities of the to-do panel.
package model

// User is an account holder. The password column stores a bcrypt hash,
// never the raw secret.
type User struct {
	Id       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" gorm:"not null"`
}

// Category groups tasks. It belongs to exactly one user and that
// ownership never changes.
type Category struct {
	Id     int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Name   string `json:"name" form:"name" gorm:"not null"`
	UserId int    `json:"-" gorm:"index;not null"`
}

// Task is a single to-do item. CategoryId is nullable: a task without a
// category, or whose category was deleted, stores NULL rather than a
// zero sentinel.
type Task struct {
	Id          int    `json:"id" form:"id" gorm:"primaryKey;autoIncrement"`
	Title       string `json:"title" form:"title" gorm:"not null"`
	Description string `json:"description" form:"description"`
	Completed   bool   `json:"completed" form:"completed" gorm:"default:false"`
	UserId      int    `json:"-" gorm:"index;not null"`
	CategoryId  *int   `json:"categoryId" form:"categoryId"`
}

// TaskWithCategory is a task list row enriched with the display name of
// its category, produced by a single LEFT JOIN rather than one lookup
// per task.
type TaskWithCategory struct {
	Task         `gorm:"embedded"`
	CategoryName string `json:"categoryName" gorm:"column:category_name"`
}
