package service

import (
	"strings"

	"todo-web/database"
	"todo-web/database/model"
	"todo-web/util/common"
)

type CategoryService struct{}

func (s *CategoryService) List(userId int) ([]model.Category, error) {
	return database.GetStore().ListCategories(userId)
}

// Create stores a category for userId. The owner is always the caller,
// whatever the form carried.
func (s *CategoryService) Create(userId int, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.NewError("category name can not be empty")
	}
	category := &model.Category{Name: name, UserId: userId}
	if err := database.GetStore().CreateCategory(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Get(id, userId int) (*model.Category, error) {
	return database.GetStore().GetCategory(id, userId)
}

func (s *CategoryService) Update(id, userId int, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return common.NewError("category name can not be empty")
	}
	return database.GetStore().UpdateCategory(id, userId, name)
}

func (s *CategoryService) Delete(id, userId int) error {
	return database.GetStore().DeleteCategory(id, userId)
}

// resolveCategory maps a requested category id onto nil unless it exists
// and belongs to userId. Cross-user assignment is silently dropped.
func (s *CategoryService) resolveCategory(categoryId *int, userId int) (*int, error) {
	if categoryId == nil {
		return nil, nil
	}
	_, err := database.GetStore().GetCategory(*categoryId, userId)
	if database.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return categoryId, nil
}
