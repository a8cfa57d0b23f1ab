package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/taskcove/task-tracker-api/internal/constants"
	"github.com/taskcove/task-tracker-api/internal/dto"
	"github.com/taskcove/task-tracker-api/internal/models"
	"github.com/taskcove/task-tracker-api/internal/repository"
	"github.com/taskcove/task-tracker-api/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *TaskHandler
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Task{},
	)
	suite.Require().NoError(err)

	userRepo := repository.NewUserRepository(suite.db)
	taskRepo := repository.NewTaskRepository(suite.db)
	suite.handler = NewTaskHandler(services.NewTaskService(taskRepo, userRepo))

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *TaskHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *TaskHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *TaskHandlerTestSuite) createTestTask(title string, creatorID uint64, assigneeID *uint64) *models.Task {
	task := &models.Task{
		Title:       title,
		Description: "Test Description",
		Status:      models.TaskStatusToDo,
		CreatedByID: creatorID,
		AssigneeID:  assigneeID,
	}
	suite.db.Create(task)
	return task
}

// createAuthContext builds a gin context carrying the authenticated user ID,
// as RequireAuth would have left it.
func (suite *TaskHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func (suite *TaskHandlerTestSuite) setTaskParam(c *gin.Context, taskID uint64) {
	c.Params = gin.Params{{Key: "id", Value: fmt.Sprintf("%d", taskID)}}
}

func (suite *TaskHandlerTestSuite) TestCreateTask_Success() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]any{
		"title":       "Fix bug",
		"description": "The login page is broken",
	})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Fix bug", response.Title)
	assert.Equal(suite.T(), user.ID, response.CreatedBy)
	assert.Equal(suite.T(), "alice", response.CreatedByUsername)
	assert.Equal(suite.T(), models.TaskStatusToDo, response.Status)
	assert.Equal(suite.T(), "To Do", response.StatusDisplay)
	assert.Nil(suite.T(), response.Assignee)
}

// TestCreateTask_SpoofedCreatorDiscarded sends a created_by in the payload
// and verifies the stored creator is the authenticated requester.
func (suite *TaskHandlerTestSuite) TestCreateTask_SpoofedCreatorDiscarded() {
	alice := suite.createTestUser("alice")
	mallory := suite.createTestUser("mallory")

	body, _ := json.Marshal(map[string]any{
		"title":      "Fix bug",
		"created_by": alice.ID,
	})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, mallory.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), mallory.ID, response.CreatedBy)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, response.ID).Error)
	assert.Equal(suite.T(), mallory.ID, stored.CreatedByID)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_MissingTitle() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]any{"description": "no title here"})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTask_InvalidStatus() {
	user := suite.createTestUser("alice")

	body, _ := json.Marshal(map[string]any{"title": "Fix bug", "status": 7})
	c, w := suite.createAuthContext("POST", "/api/tasks", body, user.ID)

	suite.handler.CreateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks_ScopedToViewer() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")

	suite.createTestTask("Alice's own", alice.ID, nil)
	suite.createTestTask("Bob's, assigned to Alice", bob.ID, &alice.ID)
	suite.createTestTask("Bob's private", bob.ID, nil)

	c, w := suite.createAuthContext("GET", "/api/tasks", nil, alice.ID)

	suite.handler.ListTasks(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(suite.T(), response.Tasks, 2)
	assert.EqualValues(suite.T(), 2, response.Pagination.Total)
	for _, task := range response.Tasks {
		visible := task.CreatedBy == alice.ID ||
			(task.Assignee != nil && *task.Assignee == alice.ID)
		assert.True(suite.T(), visible, "task %q leaked into alice's list", task.Title)
	}
}

func (suite *TaskHandlerTestSuite) TestGetTask_InvisibleLooksLikeMissing() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	task := suite.createTestTask("Alice's task", alice.ID, nil)

	// Existing but invisible
	c, wInvisible := suite.createAuthContext("GET", "/api/tasks/1", nil, bob.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.GetTask(c)

	// Nonexistent
	c, wMissing := suite.createAuthContext("GET", "/api/tasks/424242", nil, bob.ID)
	suite.setTaskParam(c, 424242)
	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusNotFound, wInvisible.Code)
	assert.Equal(suite.T(), http.StatusNotFound, wMissing.Code)
	// Identical body shape: visibility failure must not leak task existence
	assert.Equal(suite.T(), wMissing.Body.String(), wInvisible.Body.String())
}

func (suite *TaskHandlerTestSuite) TestGetTask_AssigneeSeesTask() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	task := suite.createTestTask("Shared task", alice.ID, &bob.ID)

	c, w := suite.createAuthContext("GET", "/api/tasks/1", nil, bob.ID)
	suite.setTaskParam(c, task.ID)

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "bob", response.AssigneeUsername)
	assert.Equal(suite.T(), "alice", response.CreatedByUsername)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_IgnoresImmutableFields() {
	alice := suite.createTestUser("alice")
	mallory := suite.createTestUser("mallory")
	task := suite.createTestTask("Alice's task", alice.ID, nil)

	body, _ := json.Marshal(map[string]any{
		"status":     int(models.TaskStatusDone),
		"created_by": mallory.ID,
		"created_at": "2000-01-01T00:00:00Z",
	})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, alice.ID)
	suite.setTaskParam(c, task.ID)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.TaskStatusDone, response.Status)
	assert.Equal(suite.T(), alice.ID, response.CreatedBy)

	var stored models.Task
	suite.Require().NoError(suite.db.First(&stored, task.ID).Error)
	assert.Equal(suite.T(), alice.ID, stored.CreatedByID)
	assert.WithinDuration(suite.T(), task.CreatedAt, stored.CreatedAt, time.Second)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_AssignAndClear() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	task := suite.createTestTask("Alice's task", alice.ID, nil)

	body, _ := json.Marshal(map[string]any{"assignee": bob.ID})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, alice.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	var response dto.TaskDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().NotNil(response.Assignee)
	assert.Equal(suite.T(), bob.ID, *response.Assignee)

	// Explicit null clears the assignee
	body = []byte(`{"assignee": null}`)
	c, w = suite.createAuthContext("PATCH", "/api/tasks/1", body, alice.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Nil(suite.T(), response.Assignee)
}

func (suite *TaskHandlerTestSuite) TestUpdateTask_UnknownAssignee() {
	alice := suite.createTestUser("alice")
	task := suite.createTestTask("Alice's task", alice.ID, nil)

	body, _ := json.Marshal(map[string]any{"assignee": 424242})
	c, w := suite.createAuthContext("PATCH", "/api/tasks/1", body, alice.ID)
	suite.setTaskParam(c, task.ID)

	suite.handler.UpdateTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	alice := suite.createTestUser("alice")
	bob := suite.createTestUser("bob")
	task := suite.createTestTask("Alice's task", alice.ID, nil)

	// A stranger's delete reads as 404
	c, w := suite.createAuthContext("DELETE", "/api/tasks/1", nil, bob.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.DeleteTask(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)

	c, w = suite.createAuthContext("DELETE", "/api/tasks/1", nil, alice.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.DeleteTask(c)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	c, w = suite.createAuthContext("GET", "/api/tasks/1", nil, alice.ID)
	suite.setTaskParam(c, task.ID)
	suite.handler.GetTask(c)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestGetTask_InvalidID() {
	alice := suite.createTestUser("alice")

	c, w := suite.createAuthContext("GET", "/api/tasks/abc", nil, alice.ID)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	suite.handler.GetTask(c)

	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
