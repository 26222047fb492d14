package models

import (
	"time"

	"github.com/gofrs/uuid"
)

// TaskView is the response projection: the persisted task plus the current
// profiles of every referenced user. It is rebuilt on each response and
// never stored, so profile changes are always reflected.
type TaskView struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Status      Status        `json:"status"`
	Priority    Priority      `json:"priority"`
	DueDate     *time.Time    `json:"dueDate"`
	CreatedByID uuid.UUID     `json:"createdById"`
	CreatedBy   *UserProfile  `json:"createdBy,omitempty"`
	AssigneeID  *uuid.UUID    `json:"assigneeId"`
	Assignee    *UserProfile  `json:"assignee,omitempty"`
	Comments    []CommentView `json:"comments"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type CommentView struct {
	ID        uuid.UUID    `json:"id"`
	Text      string       `json:"text"`
	AuthorID  uuid.UUID    `json:"authorId"`
	Author    *UserProfile `json:"author,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// NewTaskView joins a task against resolved profiles. Users missing from
// the directory keep their id in the view but carry no profile.
func NewTaskView(task *Task, profiles map[uuid.UUID]UserProfile) TaskView {
	view := TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedByID: task.CreatedByID,
		AssigneeID:  task.AssigneeID,
		Comments:    make([]CommentView, 0, len(task.Comments)),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}

	if profile, ok := profiles[task.CreatedByID]; ok {
		view.CreatedBy = &profile
	}
	if task.AssigneeID != nil {
		if profile, ok := profiles[*task.AssigneeID]; ok {
			view.Assignee = &profile
		}
	}

	for _, comment := range task.Comments {
		commentView := CommentView{
			ID:        comment.ID,
			Text:      comment.Text,
			AuthorID:  comment.AuthorID,
			CreatedAt: comment.CreatedAt,
		}
		if profile, ok := profiles[comment.AuthorID]; ok {
			commentView.Author = &profile
		}
		view.Comments = append(view.Comments, commentView)
	}

	return view
}
