package handlers

import (
	"net/http"
	"time"

	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// RegisterRoutes maps each operation to its own route. Assignment and
// comments live on distinct sub-resources so the two writes can never
// shadow each other.
func (h *TaskHandler) RegisterRoutes(r gin.IRouter) {
	tasks := r.Group("/tasks")
	{
		tasks.POST("", h.CreateTask)
		tasks.GET("/:id", h.GetTask)
		tasks.PATCH("/:id/assignment", h.AssignTask)
		tasks.POST("/:id/comments", h.AddComment)
	}
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var input struct {
		Title       string     `json:"title" binding:"required"`
		Description string     `json:"description"`
		Priority    string     `json:"priority"`
		DueDate     *time.Time `json:"dueDate"`
		CreatorID   string     `json:"creatorId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondCode(c, http.StatusBadRequest, CodeValidationError)
		return
	}

	creatorID, err := uuid.FromString(input.CreatorID)
	if err != nil {
		respondCode(c, http.StatusBadRequest, CodeValidationError)
		return
	}

	view, err := h.taskService.CreateTask(c.Request.Context(), services.CreateTaskInput{
		Title:       input.Title,
		Description: input.Description,
		Priority:    models.Priority(input.Priority),
		DueDate:     input.DueDate,
		CreatorID:   creatorID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, view)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	taskID, err := uuid.FromString(c.Param("id"))
	if err != nil {
		respondCode(c, http.StatusBadRequest, CodeValidationError)
		return
	}

	view, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, view)
}

func (h *TaskHandler) AssignTask(c *gin.Context) {
	taskID, err := uuid.FromString(c.Param("id"))
	if err != nil {
		respondCode(c, http.StatusBadRequest, CodeValidationError)
		return
	}

	var input struct {
		AssigneeID string `json:"assigneeId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondCode(c, http.StatusBadRequest, CodeValidationError)
		return
	}

	assigneeID, err := uuid.FromString(input.AssigneeID)
	if err != nil {
		respondCode(c, http.StatusBadRequest, CodeValidationError)
		return
	}

	view, err := h.taskService.AssignTask(c.Request.Context(), taskID, assigneeID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, view)
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	taskID, err := uuid.FromString(c.Param("id"))
	if err != nil {
		respondCode(c, http.StatusBadRequest, CodeValidationError)
		return
	}

	var input struct {
		AuthorID string `json:"authorId" binding:"required"`
		Text     string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondCode(c, http.StatusBadRequest, CodeValidationError)
		return
	}

	authorID, err := uuid.FromString(input.AuthorID)
	if err != nil {
		respondCode(c, http.StatusBadRequest, CodeValidationError)
		return
	}

	view, err := h.taskService.AddComment(c.Request.Context(), taskID, authorID, input.Text)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, view)
}
