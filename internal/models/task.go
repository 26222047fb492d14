package models

import (
	"time"

	"github.com/gofrs/uuid"
)

type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusDone:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Comment is owned by its Task and persisted inside the task row. Only the
// author's id is stored; display data is joined in at read time.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	AuthorID  uuid.UUID `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comments []Comment

// Task is the root aggregate. User references are ids only; the comments
// column holds the full ordered sequence so the row is saved and replaced
// as one unit.
type Task struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	Title       string     `json:"title" gorm:"not null"`
	Description string     `json:"description"`
	Status      Status     `json:"status" gorm:"type:text;not null;default:'todo'"`
	Priority    Priority   `json:"priority" gorm:"type:text;not null;default:'medium'"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedByID uuid.UUID  `json:"createdById" gorm:"type:uuid;not null"`
	AssigneeID  *uuid.UUID `json:"assigneeId" gorm:"type:uuid"`
	Comments    Comments   `json:"comments" gorm:"type:jsonb;serializer:json;not null;default:'[]'"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewTask builds a valid task in its initial state. It does not check that
// the creator exists; that requires the directory and belongs to the service.
func NewTask(title, description string, priority Priority, dueDate *time.Time, createdByID uuid.UUID) (*Task, error) {
	if title == "" {
		return nil, ErrTitleRequired
	}
	if createdByID == uuid.Nil {
		return nil, ErrCreatorRequired
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if !priority.Valid() {
		return nil, ErrInvalidPriority
	}

	now := time.Now().UTC()
	return &Task{
		ID:          uuid.Must(uuid.NewV4()),
		Title:       title,
		Description: description,
		Status:      StatusTodo,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedByID: createdByID,
		Comments:    Comments{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

func (t *Task) Assign(assigneeID uuid.UUID) error {
	if assigneeID == uuid.Nil {
		return ErrAssigneeRequired
	}
	t.AssigneeID = &assigneeID
	t.UpdatedAt = time.Now().UTC()
	return nil
}

// AddComment appends to the comment sequence. Comments are append-only:
// prior entries and the task's creator reference are never touched.
func (t *Task) AddComment(authorID uuid.UUID, text string) (Comment, error) {
	if authorID == uuid.Nil {
		return Comment{}, ErrAuthorRequired
	}
	if text == "" {
		return Comment{}, ErrCommentTextRequired
	}

	comment := Comment{
		ID:        uuid.Must(uuid.NewV4()),
		Text:      text,
		AuthorID:  authorID,
		CreatedAt: time.Now().UTC(),
	}
	t.Comments = append(t.Comments, comment)
	t.UpdatedAt = time.Now().UTC()
	return comment, nil
}

// UserIDs collects every user referenced by the task, deduplicated, for a
// single batched directory lookup per response.
func (t *Task) UserIDs() []uuid.UUID {
	seen := map[uuid.UUID]bool{t.CreatedByID: true}
	ids := []uuid.UUID{t.CreatedByID}

	if t.AssigneeID != nil && !seen[*t.AssigneeID] {
		seen[*t.AssigneeID] = true
		ids = append(ids, *t.AssigneeID)
	}
	for _, comment := range t.Comments {
		if !seen[comment.AuthorID] {
			seen[comment.AuthorID] = true
			ids = append(ids, comment.AuthorID)
		}
	}
	return ids
}
