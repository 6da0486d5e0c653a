// package services defines interfaces for interacting with HTTP APIs
//
// Canvas (course source), ClickUp (task destination)
package services

import (
	"context"

	"duesync/internal/models"
)

// CourseSource defines the read side: a learning-management system that
// exposes courses and their assignments.
type CourseSource interface {
	// ListCourses retrieves the authenticated user's courses. Courses
	// without a calendar feed are skipped.
	ListCourses(ctx context.Context) ([]models.Course, error)

	// ListAssignments retrieves a course's upcoming assignments in the
	// source's order, with due-date normalization already applied.
	ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error)

	// Name returns the name of the service (e.g., "Canvas")
	Name() string
}

// TaskSink defines the write side: a task tracker that receives generated
// tasks grouped under spaces and lists.
type TaskSink interface {
	// Team retrieves the authenticated user's team and user identity.
	Team(ctx context.Context) (*TeamInfo, error)

	// Spaces retrieves the spaces under a team, without lists.
	Spaces(ctx context.Context, teamID string) ([]models.Space, error)

	// Lists retrieves all leaf lists under a space, including lists nested
	// in folders (folder membership is flattened away).
	Lists(ctx context.Context, spaceID string) ([]models.TargetList, error)

	// TaskNames retrieves the names of existing tasks in a list.
	TaskNames(ctx context.Context, listID string) ([]string, error)

	// CreateTask creates a task in a list. Returns a result carrying the
	// remote status code; transport errors are returned as errors.
	CreateTask(ctx context.Context, listID string, task TaskCreate) (*TaskResult, error)

	// Name returns the name of the service (e.g., "ClickUp")
	Name() string
}

// TeamInfo identifies the destination workspace and user.
type TeamInfo struct {
	TeamID string
	UserID string
}

// TaskCreate is the payload for one task-creation attempt. DueValid false
// means the source due date was the invalid sentinel; the sink reports
// CodeInvalidDueDate without issuing a request.
type TaskCreate struct {
	Name        string
	Description string
	DueMillis   int64
	DueValid    bool
}

// TaskResult is the outcome of a creation attempt.
type TaskResult struct {
	ID         string
	StatusCode int
	Body       []byte
}

// Status codes the generation engine distinguishes.
const (
	// CodeOK is a successful creation.
	CodeOK = 200
	// CodeInvalidDueDate marks an attempt that was skipped because the
	// normalized due date was invalid. Not counted as an error.
	CodeInvalidDueDate = 100
)
