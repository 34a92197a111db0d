// Package service implements the application logic between the HTTP
// controllers and the persistence store.
package service

import (
	"strings"

	"todo-web/database"
	"todo-web/database/model"
	"todo-web/logger"
	"todo-web/util/common"
	"todo-web/util/crypto"
)

type UserService struct{}

// Register creates an account. The password is stored as a bcrypt hash.
// Returns database.ErrDuplicateUsername when the name is taken.
func (s *UserService) Register(username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, common.NewError("username can not be empty")
	}
	if password == "" {
		return nil, common.NewError("password can not be empty")
	}

	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return nil, err
	}
	return database.GetStore().CreateUser(username, hashedPassword)
}

// CheckUser verifies credentials and returns the user on success, nil
// otherwise. Unknown username and wrong password are indistinguishable
// to the caller.
func (s *UserService) CheckUser(username, password string) *model.User {
	user, err := database.GetStore().GetUserByUsername(username)
	if err != nil {
		if !database.IsNotFound(err) {
			logger.Warning("check user err:", err)
		}
		return nil
	}
	if !crypto.CheckPasswordHash(user.Password, password) {
		return nil
	}
	return user
}
