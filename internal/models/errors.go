package models

// ValidationError marks input that fails domain validation, as opposed to
// referenced entities that do not exist.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrTitleRequired       = &ValidationError{Message: "title must not be empty"}
	ErrCreatorRequired     = &ValidationError{Message: "createdById must be set"}
	ErrAssigneeRequired    = &ValidationError{Message: "assigneeId must be set"}
	ErrAuthorRequired      = &ValidationError{Message: "authorId must be set"}
	ErrCommentTextRequired = &ValidationError{Message: "comment text must not be empty"}
	ErrInvalidPriority     = &ValidationError{Message: "invalid priority"}
)
