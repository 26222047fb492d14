package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"task-tracker/backend/internal/directory"
	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/repositories"
	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type fakeTaskRepo struct {
	tasks map[uuid.UUID]models.Task
}

func (r *fakeTaskRepo) Save(_ context.Context, task *models.Task) error {
	r.tasks[task.ID] = *task
	return nil
}

func (r *fakeTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, repositories.ErrTaskNotFound
	}
	copied := task
	copied.Comments = append(models.Comments{}, task.Comments...)
	return &copied, nil
}

type fakeDirectory struct {
	profiles map[uuid.UUID]models.UserProfile
}

func (d *fakeDirectory) FindByID(_ context.Context, id uuid.UUID) (models.UserProfile, error) {
	profile, ok := d.profiles[id]
	if !ok {
		return models.UserProfile{}, directory.ErrUserNotFound
	}
	return profile, nil
}

func (d *fakeDirectory) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.UserProfile, error) {
	result := make(map[uuid.UUID]models.UserProfile)
	for _, id := range ids {
		if profile, ok := d.profiles[id]; ok {
			result[id] = profile
		}
	}
	return result, nil
}

type envelope struct {
	OK   bool            `json:"ok"`
	Code string          `json:"code"`
	Data models.TaskView `json:"data"`
}

type testEnv struct {
	router *gin.Engine
	repo   *fakeTaskRepo
	dir    *fakeDirectory
}

func setupTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	repo := &fakeTaskRepo{tasks: make(map[uuid.UUID]models.Task)}
	dir := &fakeDirectory{profiles: make(map[uuid.UUID]models.UserProfile)}

	router := gin.New()
	NewTaskHandler(services.NewTaskService(repo, dir)).RegisterRoutes(router)

	return &testEnv{router: router, repo: repo, dir: dir}
}

func (e *testEnv) addUser(name string) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	e.dir.profiles[id] = models.UserProfile{ID: id, Name: name, Email: name + "@example.com"}
	return id
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("Response is not a valid envelope: %v (body: %s)", err, w.Body.String())
	}
	return w, env
}

func TestCreateTask_Success(t *testing.T) {
	env := setupTestEnv()
	creatorID := env.addUser("Ada")

	w, resp := env.do(t, "POST", "/tasks", gin.H{
		"title":     "Fix bug",
		"creatorId": creatorID.String(),
	})

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (body: %s)", w.Code, w.Body.String())
	}
	if !resp.OK {
		t.Error("Expected ok=true")
	}
	if resp.Data.Status != models.StatusTodo {
		t.Errorf("Expected status todo, got %s", resp.Data.Status)
	}
	if len(resp.Data.Comments) != 0 {
		t.Errorf("Expected empty comments, got %d", len(resp.Data.Comments))
	}
	if resp.Data.CreatedBy == nil || resp.Data.CreatedBy.Name != "Ada" {
		t.Errorf("Expected resolved creator Ada, got %+v", resp.Data.CreatedBy)
	}
}

func TestCreateTask_UnknownCreator(t *testing.T) {
	env := setupTestEnv()

	w, resp := env.do(t, "POST", "/tasks", gin.H{
		"title":     "Fix bug",
		"creatorId": uuid.Must(uuid.NewV4()).String(),
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	if resp.OK {
		t.Error("Expected ok=false")
	}
	if resp.Code != CodeUserNotFound {
		t.Errorf("Expected code %s, got %s", CodeUserNotFound, resp.Code)
	}
}

func TestCreateTask_Validation(t *testing.T) {
	env := setupTestEnv()
	creatorID := env.addUser("Ada")

	tests := []struct {
		name string
		body gin.H
	}{
		{"missing title", gin.H{"creatorId": creatorID.String()}},
		{"missing creator", gin.H{"title": "Fix bug"}},
		{"malformed creator id", gin.H{"title": "Fix bug", "creatorId": "not-a-uuid"}},
		{"unknown priority", gin.H{"title": "Fix bug", "creatorId": creatorID.String(), "priority": "urgent"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w, resp := env.do(t, "POST", "/tasks", test.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", w.Code)
			}
			if resp.Code != CodeValidationError {
				t.Errorf("Expected code %s, got %s", CodeValidationError, resp.Code)
			}
		})
	}
}

func TestAssignTask_UnknownTask(t *testing.T) {
	env := setupTestEnv()
	assigneeID := env.addUser("Grace")

	w, resp := env.do(t, "PATCH", fmt.Sprintf("/tasks/%s/assignment", uuid.Must(uuid.NewV4())), gin.H{
		"assigneeId": assigneeID.String(),
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", w.Code)
	}
	if resp.Code != CodeTaskNotFound {
		t.Errorf("Expected code %s, got %s", CodeTaskNotFound, resp.Code)
	}
}

func TestGetTask(t *testing.T) {
	env := setupTestEnv()
	creatorID := env.addUser("Ada")

	_, created := env.do(t, "POST", "/tasks", gin.H{"title": "Fix bug", "creatorId": creatorID.String()})

	w, resp := env.do(t, "GET", "/tasks/"+created.Data.ID.String(), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if resp.Data.Title != "Fix bug" {
		t.Errorf("Expected title Fix bug, got %s", resp.Data.Title)
	}

	w, resp = env.do(t, "GET", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown task, got %d", w.Code)
	}
	if resp.Code != CodeTaskNotFound {
		t.Errorf("Expected code %s, got %s", CodeTaskNotFound, resp.Code)
	}
}

func TestRouteSeparation(t *testing.T) {
	env := setupTestEnv()
	creatorID := env.addUser("Ada")
	assigneeID := env.addUser("Grace")

	_, created := env.do(t, "POST", "/tasks", gin.H{"title": "Fix bug", "creatorId": creatorID.String()})
	taskID := created.Data.ID

	// The comment route must never mutate the assignment.
	w, resp := env.do(t, "POST", fmt.Sprintf("/tasks/%s/comments", taskID), gin.H{
		"authorId": creatorID.String(),
		"text":     "ping",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	if resp.Data.AssigneeID != nil {
		t.Error("Comment route must not assign the task")
	}

	// The assignment route must never append a comment.
	w, resp = env.do(t, "PATCH", fmt.Sprintf("/tasks/%s/assignment", taskID), gin.H{
		"assigneeId": assigneeID.String(),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if len(resp.Data.Comments) != 1 {
		t.Errorf("Assignment route must not change comments, got %d", len(resp.Data.Comments))
	}
	if resp.Data.AssigneeID == nil || *resp.Data.AssigneeID != assigneeID {
		t.Errorf("Expected assignee %s, got %v", assigneeID, resp.Data.AssigneeID)
	}
}

// Full lifecycle: create, fail an assignment to a missing user, comment.
func TestTaskLifecycleScenario(t *testing.T) {
	env := setupTestEnv()
	u1 := env.addUser("u1")

	w, created := env.do(t, "POST", "/tasks", gin.H{"title": "Fix bug", "creatorId": u1.String()})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	if created.Data.Status != models.StatusTodo || len(created.Data.Comments) != 0 {
		t.Errorf("Expected fresh todo task, got %+v", created.Data)
	}
	taskID := created.Data.ID

	w, resp := env.do(t, "PATCH", fmt.Sprintf("/tasks/%s/assignment", taskID), gin.H{
		"assigneeId": uuid.Must(uuid.NewV4()).String(),
	})
	if w.Code != http.StatusNotFound || resp.Code != CodeUserNotFound {
		t.Fatalf("Expected 404 USER_NOT_FOUND, got %d %s", w.Code, resp.Code)
	}

	_, current := env.do(t, "GET", "/tasks/"+taskID.String(), nil)
	if current.Data.AssigneeID != nil {
		t.Error("Task must remain unassigned after failed assignment")
	}

	w, resp = env.do(t, "POST", fmt.Sprintf("/tasks/%s/comments", taskID), gin.H{
		"authorId": u1.String(),
		"text":     "ping",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}
	if len(resp.Data.Comments) != 1 || resp.Data.Comments[0].Text != "ping" {
		t.Fatalf("Expected single comment ping, got %+v", resp.Data.Comments)
	}
	if resp.Data.Comments[0].Author == nil || resp.Data.Comments[0].Author.Name != "u1" {
		t.Errorf("Expected comment author to resolve to u1, got %+v", resp.Data.Comments[0].Author)
	}
}

func TestAddComment_EmptyText(t *testing.T) {
	env := setupTestEnv()
	creatorID := env.addUser("Ada")

	_, created := env.do(t, "POST", "/tasks", gin.H{"title": "Fix bug", "creatorId": creatorID.String()})

	w, resp := env.do(t, "POST", fmt.Sprintf("/tasks/%s/comments", created.Data.ID), gin.H{
		"authorId": creatorID.String(),
		"text":     "",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
	if resp.Code != CodeValidationError {
		t.Errorf("Expected code %s, got %s", CodeValidationError, resp.Code)
	}
}

func TestEnvelope_NeverMixesShapes(t *testing.T) {
	env := setupTestEnv()
	creatorID := env.addUser("Ada")

	w, _ := env.do(t, "POST", "/tasks", gin.H{"title": "Fix bug", "creatorId": creatorID.String()})
	var success map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &success)
	if _, hasCode := success["code"]; hasCode {
		t.Error("Success envelope must not carry a code")
	}
	if _, hasData := success["data"]; !hasData {
		t.Error("Success envelope must carry data")
	}

	w, _ = env.do(t, "GET", "/tasks/"+uuid.Must(uuid.NewV4()).String(), nil)
	var failure map[string]json.RawMessage
	json.Unmarshal(w.Body.Bytes(), &failure)
	if _, hasData := failure["data"]; hasData {
		t.Error("Failure envelope must not carry data")
	}
	if _, hasCode := failure["code"]; !hasCode {
		t.Error("Failure envelope must carry a code")
	}
}

func TestStaleProfileNeverServed(t *testing.T) {
	env := setupTestEnv()
	creatorID := env.addUser("Ada")

	_, created := env.do(t, "POST", "/tasks", gin.H{"title": "Fix bug", "creatorId": creatorID.String()})

	env.dir.profiles[creatorID] = models.UserProfile{ID: creatorID, Name: "Ada Lovelace", Email: "ada@example.com"}

	_, resp := env.do(t, "GET", "/tasks/"+created.Data.ID.String(), nil)
	if resp.Data.CreatedBy == nil || resp.Data.CreatedBy.Name != "Ada Lovelace" {
		t.Errorf("Expected current profile name, got %+v", resp.Data.CreatedBy)
	}
}
