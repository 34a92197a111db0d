package service

import (
	"errors"
	"strings"
	"testing"

	"todo-web/database"
)

func TestRegisterHashesPassword(t *testing.T) {
	initTestDB(t)
	s := UserService{}

	user, err := s.Register("alice", "pw1")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if user.Password == "pw1" {
		t.Fatal("password stored in plaintext")
	}
	if !strings.HasPrefix(user.Password, "$2") {
		t.Errorf("expected a bcrypt hash, got %q", user.Password)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	initTestDB(t)
	s := UserService{}

	if _, err := s.Register("alice", "pw1"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	_, err := s.Register("alice", "other")
	if !errors.Is(err, database.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	initTestDB(t)
	s := UserService{}

	if _, err := s.Register("   ", "pw"); err == nil {
		t.Error("expected error for blank username")
	}
	if _, err := s.Register("alice", ""); err == nil {
		t.Error("expected error for empty password")
	}
}

func TestCheckUser(t *testing.T) {
	initTestDB(t)
	s := UserService{}

	if _, err := s.Register("alice", "pw1"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	if user := s.CheckUser("alice", "pw1"); user == nil {
		t.Error("expected login with correct password to succeed")
	}
	if user := s.CheckUser("alice", "wrong"); user != nil {
		t.Error("expected login with wrong password to fail")
	}
	if user := s.CheckUser("nobody", "pw1"); user != nil {
		t.Error("expected login with unknown username to fail")
	}
}
