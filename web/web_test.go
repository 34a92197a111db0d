package web

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"todo-web/database"
	"todo-web/logger"

	"github.com/op/go-logging"
)

func TestMain(m *testing.M) {
	logger.InitLogger(logging.ERROR)
	os.Exit(m.Run())
}

// newTestServer boots the full router against a fresh database.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	if err := database.InitDB(filepath.Join(t.TempDir(), "todo.db")); err != nil {
		t.Fatalf("InitDB() error: %v", err)
	}
	t.Cleanup(func() {
		if err := database.CloseDB(); err != nil {
			t.Errorf("CloseDB() error: %v", err)
		}
	})

	s := NewServer()
	engine, err := s.initRouter()
	if err != nil {
		t.Fatalf("initRouter() error: %v", err)
	}
	ts := httptest.NewServer(engine)
	t.Cleanup(ts.Close)
	return ts
}

// newClient returns an http client with its own cookie jar, i.e. one
// browser session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar.New() error: %v", err)
	}
	return &http.Client{Jar: jar}
}

func mustPostForm(t *testing.T, c *http.Client, rawURL string, form url.Values) string {
	t.Helper()
	resp, err := c.PostForm(rawURL, form)
	if err != nil {
		t.Fatalf("POST %s error: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func mustGet(t *testing.T, c *http.Client, rawURL string) string {
	t.Helper()
	resp, err := c.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s error: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(body)
}

func registerAndLogin(t *testing.T, c *http.Client, baseURL, username, password string) {
	t.Helper()
	creds := url.Values{"username": {username}, "password": {password}}
	body := mustPostForm(t, c, baseURL+"/register", creds)
	if !strings.Contains(body, "Registration successful") {
		t.Fatalf("registration of %q failed: %s", username, body)
	}
	body = mustPostForm(t, c, baseURL+"/login", creds)
	if !strings.Contains(body, "Welcome, "+username+"!") {
		t.Fatalf("login of %q failed: %s", username, body)
	}
}

// postJSON sends the asynchronous completed-status request the way the
// page script does.
func postJSON(t *testing.T, c *http.Client, rawURL string, payload any) (*http.Response, map[string]string) {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, rawURL, bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("POST %s error: %v", rawURL, err)
	}
	defer resp.Body.Close()

	var decoded map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp, decoded
}

// firstTaskId looks the task id up through the store, the same way the
// original test suite peeked at the sqlite file directly.
func firstTaskId(t *testing.T, username string) int {
	t.Helper()
	user, err := database.GetStore().GetUserByUsername(username)
	if err != nil {
		t.Fatalf("GetUserByUsername(%q) error: %v", username, err)
	}
	tasks, err := database.GetStore().ListTasks(user.Id)
	if err != nil {
		t.Fatalf("ListTasks() error: %v", err)
	}
	if len(tasks) == 0 {
		t.Fatal("no tasks in store")
	}
	return tasks[0].Id
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	ts := newTestServer(t)

	// A browser request is redirected to the login page.
	noRedirect := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := noRedirect.Get(ts.URL + "/tasks")
	if err != nil {
		t.Fatalf("GET /tasks error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Errorf("expected redirect to /login, got %q", loc)
	}

	// An AJAX request gets a 401 instead.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/tasks", nil)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /tasks (ajax) error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 for ajax, got %d", resp.StatusCode)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	creds := url.Values{"username": {"alice"}, "password": {"pw1"}}
	mustPostForm(t, c, ts.URL+"/register", creds)

	body := mustPostForm(t, c, ts.URL+"/login",
		url.Values{"username": {"alice"}, "password": {"wrong"}})
	if !strings.Contains(body, "Invalid username or password") {
		t.Errorf("expected inline error, got: %s", body)
	}

	// No session was established.
	noRedirect := &http.Client{
		Jar: c.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := noRedirect.Get(ts.URL + "/tasks")
	if err != nil {
		t.Fatalf("GET /tasks error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected 302 after failed login, got %d", resp.StatusCode)
	}
}

func TestRegisterDuplicateShowsInlineError(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)

	creds := url.Values{"username": {"alice"}, "password": {"pw1"}}
	mustPostForm(t, c, ts.URL+"/register", creds)
	body := mustPostForm(t, c, ts.URL+"/register", creds)
	if !strings.Contains(body, "Username already exists.") {
		t.Errorf("expected duplicate-username error, got: %s", body)
	}
}

func TestTaskLifecycle(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)
	registerAndLogin(t, c, ts.URL, "alice", "pw1")

	// Create.
	body := mustPostForm(t, c, ts.URL+"/tasks/add", url.Values{
		"title":       {"Buy milk"},
		"description": {"2 liters"},
		"category_id": {""},
	})
	if !strings.Contains(body, "Task added successfully!") {
		t.Fatalf("task creation failed: %s", body)
	}
	if !strings.Contains(body, "Buy milk") {
		t.Errorf("task list missing new task: %s", body)
	}

	taskId := firstTaskId(t, "alice")
	taskURL := ts.URL + "/tasks/" + itoa(taskId)

	// Toggle on.
	resp, decoded := postJSON(t, c, taskURL+"/update_completed",
		map[string]string{"completed": "Yes"})
	if resp.StatusCode != http.StatusOK || decoded["status"] != "success" {
		t.Fatalf("toggle on failed: %d %v", resp.StatusCode, decoded)
	}
	task, err := database.GetStore().GetTask(taskId, userIdOf(t, "alice"))
	if err != nil || !task.Completed {
		t.Fatalf("expected completed=true after toggle, task=%+v err=%v", task, err)
	}

	// Toggle off.
	resp, decoded = postJSON(t, c, taskURL+"/update_completed",
		map[string]string{"completed": "No"})
	if resp.StatusCode != http.StatusOK || decoded["status"] != "success" {
		t.Fatalf("toggle off failed: %d %v", resp.StatusCode, decoded)
	}
	task, err = database.GetStore().GetTask(taskId, userIdOf(t, "alice"))
	if err != nil || task.Completed {
		t.Fatalf("expected completed=false after toggle, task=%+v err=%v", task, err)
	}

	// Malformed payload: missing key, no mutation.
	resp, decoded = postJSON(t, c, taskURL+"/update_completed",
		map[string]string{"other": "Yes"})
	if resp.StatusCode != http.StatusBadRequest || decoded["status"] != "error" {
		t.Errorf("expected 400 for malformed payload, got %d %v", resp.StatusCode, decoded)
	}

	// Edit.
	body = mustPostForm(t, c, taskURL+"/edit", url.Values{
		"title":       {"Buy oat milk"},
		"description": {"2 liters"},
		"category_id": {""},
	})
	if !strings.Contains(body, "Task updated successfully!") {
		t.Fatalf("task edit failed: %s", body)
	}

	// Delete; list ends up empty.
	body = mustPostForm(t, c, taskURL+"/delete", url.Values{})
	if !strings.Contains(body, "Task deleted successfully!") {
		t.Fatalf("task delete failed: %s", body)
	}
	if strings.Contains(body, "Buy oat milk") {
		t.Errorf("deleted task still listed: %s", body)
	}
}

func TestCrossUserIsolation(t *testing.T) {
	ts := newTestServer(t)

	alice := newClient(t)
	registerAndLogin(t, alice, ts.URL, "alice", "pw1")
	mustPostForm(t, alice, ts.URL+"/categories/add", url.Values{"name": {"Work"}})
	mustPostForm(t, alice, ts.URL+"/tasks/add", url.Values{
		"title": {"Alice task"}, "description": {""}, "category_id": {""},
	})
	aliceId := userIdOf(t, "alice")
	aliceCategories, err := database.GetStore().ListCategories(aliceId)
	if err != nil || len(aliceCategories) != 1 {
		t.Fatalf("expected one category for alice, got %v err=%v", aliceCategories, err)
	}
	aliceTaskId := firstTaskId(t, "alice")

	bob := newClient(t)
	registerAndLogin(t, bob, ts.URL, "bob", "pw2")

	// Bob's category dropdown and list never show alice's category.
	body := mustGet(t, bob, ts.URL+"/categories")
	if strings.Contains(body, "Work") {
		t.Errorf("bob sees alice's category: %s", body)
	}

	// A task created by bob with alice's category id keeps no reference.
	mustPostForm(t, bob, ts.URL+"/tasks/add", url.Values{
		"title":       {"Bob task"},
		"description": {""},
		"category_id": {itoa(aliceCategories[0].Id)},
	})
	bobTasks, err := database.GetStore().ListTasks(userIdOf(t, "bob"))
	if err != nil || len(bobTasks) != 1 {
		t.Fatalf("expected one task for bob, got %v err=%v", bobTasks, err)
	}
	if bobTasks[0].CategoryId != nil {
		t.Errorf("cross-user category assignment stored: %d", *bobTasks[0].CategoryId)
	}

	// Bob cannot edit, delete or toggle alice's task.
	body = mustPostForm(t, bob, ts.URL+"/tasks/"+itoa(aliceTaskId)+"/edit", url.Values{
		"title": {"hijacked"}, "description": {""}, "category_id": {""},
	})
	if !strings.Contains(body, "Task not found.") {
		t.Errorf("expected not-found flash for foreign edit: %s", body)
	}
	resp, decoded := postJSON(t, bob, ts.URL+"/tasks/"+itoa(aliceTaskId)+"/update_completed",
		map[string]string{"completed": "Yes"})
	if resp.StatusCode != http.StatusNotFound || decoded["status"] != "error" {
		t.Errorf("expected 404 for foreign toggle, got %d %v", resp.StatusCode, decoded)
	}

	// Alice's task is untouched.
	task, err := database.GetStore().GetTask(aliceTaskId, aliceId)
	if err != nil {
		t.Fatalf("GetTask() error: %v", err)
	}
	if task.Title != "Alice task" || task.Completed {
		t.Errorf("alice's task mutated by bob: %+v", task)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)
	registerAndLogin(t, c, ts.URL, "alice", "pw1")

	body := mustPostForm(t, c, ts.URL+"/categories/add", url.Values{"name": {"Work"}})
	if !strings.Contains(body, "Category added successfully!") {
		t.Fatalf("category creation failed: %s", body)
	}

	// Blank name re-renders the form with an inline error.
	body = mustPostForm(t, c, ts.URL+"/categories/add", url.Values{"name": {"   "}})
	if !strings.Contains(body, "can not be empty") {
		t.Errorf("expected validation error, got: %s", body)
	}

	categories, err := database.GetStore().ListCategories(userIdOf(t, "alice"))
	if err != nil || len(categories) != 1 {
		t.Fatalf("expected one category, got %v err=%v", categories, err)
	}
	catURL := ts.URL + "/categories/" + itoa(categories[0].Id)

	body = mustPostForm(t, c, catURL+"/edit", url.Values{"name": {"Office"}})
	if !strings.Contains(body, "Category updated successfully!") ||
		!strings.Contains(body, "Office") {
		t.Fatalf("category edit failed: %s", body)
	}

	body = mustPostForm(t, c, catURL+"/delete", url.Values{})
	if !strings.Contains(body, "Category deleted successfully!") {
		t.Fatalf("category delete failed: %s", body)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	ts := newTestServer(t)
	c := newClient(t)
	registerAndLogin(t, c, ts.URL, "alice", "pw1")

	body := mustGet(t, c, ts.URL+"/logout")
	if !strings.Contains(body, "Logged out successfully.") {
		t.Errorf("expected logout flash, got: %s", body)
	}

	noRedirect := &http.Client{
		Jar: c.Jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	resp, err := noRedirect.Get(ts.URL + "/tasks")
	if err != nil {
		t.Fatalf("GET /tasks error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		t.Errorf("expected 302 after logout, got %d", resp.StatusCode)
	}

	// Logout is idempotent for the session: a second call from the same
	// browser just redirects back to login.
	mustGet(t, c, ts.URL+"/logout")
}

func userIdOf(t *testing.T, username string) int {
	t.Helper()
	user, err := database.GetStore().GetUserByUsername(username)
	if err != nil {
		t.Fatalf("GetUserByUsername(%q) error: %v", username, err)
	}
	return user.Id
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
