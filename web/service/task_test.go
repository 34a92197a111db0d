package service

import (
	"testing"

	"todo-web/database"
	"todo-web/database/model"
)

func registerTwo(t *testing.T) (alice, bob *model.User) {
	t.Helper()
	s := UserService{}
	var err error
	if alice, err = s.Register("alice", "pw1"); err != nil {
		t.Fatalf("Register(alice) error: %v", err)
	}
	if bob, err = s.Register("bob", "pw2"); err != nil {
		t.Fatalf("Register(bob) error: %v", err)
	}
	return alice, bob
}

func TestCreateTaskStampsOwner(t *testing.T) {
	initTestDB(t)
	alice, _ := registerTwo(t)
	s := TaskService{}

	task, err := s.Create(alice.Id, "Buy milk", "", nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if task.UserId != alice.Id {
		t.Errorf("expected owner %d, got %d", alice.Id, task.UserId)
	}
	if task.Completed {
		t.Error("new task must start uncompleted")
	}
}

func TestCreateTaskRejectsBlankTitle(t *testing.T) {
	initTestDB(t)
	alice, _ := registerTwo(t)
	s := TaskService{}

	for _, title := range []string{"", "   ", "\t"} {
		if _, err := s.Create(alice.Id, title, "desc", nil); err == nil {
			t.Errorf("Create(%q) expected validation error", title)
		}
	}
	// Empty description is fine.
	if _, err := s.Create(alice.Id, "ok", "", nil); err != nil {
		t.Errorf("Create() with empty description: %v", err)
	}
}

func TestCreateTaskDropsForeignCategory(t *testing.T) {
	initTestDB(t)
	alice, bob := registerTwo(t)
	cs := CategoryService{}
	ts := TaskService{}

	work, err := cs.Create(alice.Id, "Work")
	if err != nil {
		t.Fatalf("Create(category) error: %v", err)
	}

	// Bob supplies alice's category id; the reference must be nulled.
	task, err := ts.Create(bob.Id, "Sneaky", "", &work.Id)
	if err != nil {
		t.Fatalf("Create(task) error: %v", err)
	}
	if task.CategoryId != nil {
		t.Errorf("cross-user category assignment stored: %d", *task.CategoryId)
	}

	// Alice supplying her own category keeps it.
	task, err = ts.Create(alice.Id, "Legit", "", &work.Id)
	if err != nil {
		t.Fatalf("Create(task) error: %v", err)
	}
	if task.CategoryId == nil || *task.CategoryId != work.Id {
		t.Errorf("own category assignment lost: %v", task.CategoryId)
	}
}

func TestUpdateTaskDropsForeignCategory(t *testing.T) {
	initTestDB(t)
	alice, bob := registerTwo(t)
	cs := CategoryService{}
	ts := TaskService{}

	work, err := cs.Create(alice.Id, "Work")
	if err != nil {
		t.Fatalf("Create(category) error: %v", err)
	}
	task, err := ts.Create(bob.Id, "Mine", "", nil)
	if err != nil {
		t.Fatalf("Create(task) error: %v", err)
	}

	fields := database.TaskFields{Title: "Mine", CategoryId: &work.Id}
	if err := ts.Update(task.Id, bob.Id, fields); err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	got, err := ts.Get(task.Id, bob.Id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.CategoryId != nil {
		t.Errorf("cross-user category stored on update: %d", *got.CategoryId)
	}
}

func TestSetCompletedReportsNotFoundForForeignTask(t *testing.T) {
	initTestDB(t)
	alice, bob := registerTwo(t)
	ts := TaskService{}

	task, err := ts.Create(alice.Id, "Buy milk", "", nil)
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	err = ts.SetCompleted(task.Id, bob.Id, true)
	if !database.IsNotFound(err) {
		t.Fatalf("expected ErrNotFound for foreign task, got %v", err)
	}

	got, err := ts.Get(task.Id, alice.Id)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.Completed {
		t.Error("foreign toggle mutated the task")
	}
}
