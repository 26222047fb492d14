package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"task-tracker/backend/internal/directory"
	"task-tracker/backend/internal/models"
	"task-tracker/backend/internal/repositories"

	"github.com/gofrs/uuid"
)

// Sentinels re-exported so handlers depend on the service layer only.
var (
	ErrTaskNotFound = repositories.ErrTaskNotFound
	ErrUserNotFound = directory.ErrUserNotFound
)

type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.Priority
	DueDate     *time.Time
	CreatorID   uuid.UUID
}

// TaskService orchestrates validation, directory lookups and persistence.
// It is the only component that talks to both the repository and the
// directory. Every write verifies referenced users before mutating
// anything, so a failed lookup never leaves a partial write behind.
type TaskService interface {
	CreateTask(ctx context.Context, input CreateTaskInput) (models.TaskView, error)
	AssignTask(ctx context.Context, taskID, assigneeID uuid.UUID) (models.TaskView, error)
	AddComment(ctx context.Context, taskID, authorID uuid.UUID, text string) (models.TaskView, error)
	GetTask(ctx context.Context, taskID uuid.UUID) (models.TaskView, error)
}

type TaskServiceImpl struct {
	repo      repositories.TaskRepository
	directory directory.Directory
}

func NewTaskService(repo repositories.TaskRepository, dir directory.Directory) *TaskServiceImpl {
	return &TaskServiceImpl{repo: repo, directory: dir}
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, input CreateTaskInput) (models.TaskView, error) {
	if _, err := s.directory.FindByID(ctx, input.CreatorID); err != nil {
		return models.TaskView{}, err
	}

	task, err := models.NewTask(input.Title, input.Description, input.Priority, input.DueDate, input.CreatorID)
	if err != nil {
		return models.TaskView{}, err
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return models.TaskView{}, fmt.Errorf("failed to persist task: %w", err)
	}

	return s.project(ctx, task)
}

func (s *TaskServiceImpl) AssignTask(ctx context.Context, taskID, assigneeID uuid.UUID) (models.TaskView, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return models.TaskView{}, err
	}

	// Existence check before the mutation: an unknown assignee must leave
	// the task untouched.
	if _, err := s.directory.FindByID(ctx, assigneeID); err != nil {
		return models.TaskView{}, err
	}

	if err := task.Assign(assigneeID); err != nil {
		return models.TaskView{}, err
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return models.TaskView{}, fmt.Errorf("failed to persist assignment: %w", err)
	}

	return s.project(ctx, task)
}

func (s *TaskServiceImpl) AddComment(ctx context.Context, taskID, authorID uuid.UUID, text string) (models.TaskView, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return models.TaskView{}, err
	}

	if _, err := s.directory.FindByID(ctx, authorID); err != nil {
		return models.TaskView{}, err
	}

	if _, err := task.AddComment(authorID, text); err != nil {
		return models.TaskView{}, err
	}

	if err := s.repo.Save(ctx, task); err != nil {
		return models.TaskView{}, fmt.Errorf("failed to persist comment: %w", err)
	}

	return s.project(ctx, task)
}

func (s *TaskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (models.TaskView, error) {
	task, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return models.TaskView{}, err
	}
	return s.project(ctx, task)
}

// project resolves every user the task references with one batched
// directory call and joins the current profiles into the response view.
func (s *TaskServiceImpl) project(ctx context.Context, task *models.Task) (models.TaskView, error) {
	profiles, err := s.directory.FindByIDs(ctx, task.UserIDs())
	if err != nil {
		if errors.Is(err, directory.ErrUserNotFound) {
			profiles = map[uuid.UUID]models.UserProfile{}
		} else {
			return models.TaskView{}, fmt.Errorf("failed to resolve user profiles: %w", err)
		}
	}
	return models.NewTaskView(task, profiles), nil
}
