// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"duesync/internal/models"
	"duesync/internal/services"
)

// MockCourseSource is a test double for [services.CourseSource]
type MockCourseSource struct {
	Courses     []models.Course
	Assignments map[string][]models.Assignment

	CoursesErr     error
	AssignmentsErr error

	ListCoursesCalls     int
	ListAssignmentsCalls int
}

func (m *MockCourseSource) ListCourses(ctx context.Context) ([]models.Course, error) {
	m.ListCoursesCalls++
	if m.CoursesErr != nil {
		return nil, m.CoursesErr
	}
	return m.Courses, nil
}

func (m *MockCourseSource) ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	m.ListAssignmentsCalls++
	if m.AssignmentsErr != nil {
		return nil, m.AssignmentsErr
	}
	return m.Assignments[courseID], nil
}

func (m *MockCourseSource) Name() string { return "mock-source" }

// MockTaskSink is a test double for [services.TaskSink]. Created tasks are
// recorded in order; CreateResults (keyed by task name) overrides the default
// successful result.
type MockTaskSink struct {
	TeamInfo  services.TeamInfo
	SpaceList []models.Space
	Names     []string

	TeamErr      error
	SpacesErr    error
	ListsErr     error
	TaskNamesErr error
	CreateErr    error

	CreateResults map[string]*services.TaskResult

	mu            sync.Mutex
	Created       []services.TaskCreate
	TaskNameCalls int
}

func (m *MockTaskSink) Team(ctx context.Context) (*services.TeamInfo, error) {
	if m.TeamErr != nil {
		return nil, m.TeamErr
	}
	info := m.TeamInfo
	return &info, nil
}

func (m *MockTaskSink) Spaces(ctx context.Context, teamID string) ([]models.Space, error) {
	if m.SpacesErr != nil {
		return nil, m.SpacesErr
	}
	spaces := make([]models.Space, len(m.SpaceList))
	for i, s := range m.SpaceList {
		spaces[i] = models.Space{ID: s.ID, Name: s.Name}
	}
	return spaces, nil
}

func (m *MockTaskSink) Lists(ctx context.Context, spaceID string) ([]models.TargetList, error) {
	if m.ListsErr != nil {
		return nil, m.ListsErr
	}
	for _, s := range m.SpaceList {
		if s.ID == spaceID {
			return s.Lists, nil
		}
	}
	return nil, nil
}

func (m *MockTaskSink) TaskNames(ctx context.Context, listID string) ([]string, error) {
	m.mu.Lock()
	m.TaskNameCalls++
	m.mu.Unlock()
	if m.TaskNamesErr != nil {
		return nil, m.TaskNamesErr
	}
	return m.Names, nil
}

func (m *MockTaskSink) CreateTask(ctx context.Context, listID string, task services.TaskCreate) (*services.TaskResult, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.mu.Lock()
	m.Created = append(m.Created, task)
	m.mu.Unlock()

	if !task.DueValid {
		return &services.TaskResult{StatusCode: services.CodeInvalidDueDate}, nil
	}
	if result, ok := m.CreateResults[task.Name]; ok {
		return result, nil
	}
	return &services.TaskResult{ID: "created-" + task.Name, StatusCode: services.CodeOK}, nil
}

func (m *MockTaskSink) Name() string { return "mock-sink" }

// CreatedNames returns the names of created tasks in creation order
func (m *MockTaskSink) CreatedNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.Created))
	for i, task := range m.Created {
		names[i] = task.Name
	}
	return names
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
