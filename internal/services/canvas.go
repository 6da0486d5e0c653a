// Canvas API implementation of [CourseSource]
//
// Response types based on https://canvas.instructure.com/doc/api/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"duesync/internal/duedate"
	"duesync/internal/models"
	"duesync/internal/shared"
)

const defaultCanvasBaseURL = "https://canvas.instructure.com"

type canvasCalendar struct {
	ICS string `json:"ics"`
}

// CanvasCourse represents a Canvas course resource.
type CanvasCourse struct {
	ID       json.Number     `json:"id"`
	Name     string          `json:"name"`
	Calendar *canvasCalendar `json:"calendar"`
}

// CanvasAssignment represents a Canvas assignment resource.
type CanvasAssignment struct {
	ID              json.Number `json:"id"`
	Name            string      `json:"name"`
	DueAt           string      `json:"due_at"`
	SubmissionTypes []string    `json:"submission_types"`
	HTMLURL         string      `json:"html_url"`
}

// CanvasService implements [CourseSource] over the Canvas REST API using
// bearer-token auth. Due-date normalization is applied once per assignment
// as it is constructed.
type CanvasService struct {
	baseURL    string
	token      string
	httpClient *http.Client
	policy     duedate.Policy
}

// NewCanvasService creates a Canvas client. baseURL defaults to the hosted
// Canvas instance; client defaults to [http.DefaultClient].
func NewCanvasService(baseURL, token string, client *http.Client, policy duedate.Policy) *CanvasService {
	if baseURL == "" {
		baseURL = defaultCanvasBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &CanvasService{
		baseURL:    baseURL,
		token:      token,
		httpClient: client,
		policy:     policy,
	}
}

func (s *CanvasService) Name() string {
	return "Canvas"
}

// doRequest performs an authenticated GET against the Canvas API and decodes
// the JSON response into result.
func (s *CanvasService) doRequest(ctx context.Context, endpoint string, result any) error {
	if s.token == "" {
		return fmt.Errorf("%w: canvas key not set", shared.ErrMissingCredentials)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: canvas status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ListCourses retrieves the user's courses, skipping entries without a
// calendar feed.
func (s *CanvasService) ListCourses(ctx context.Context) ([]models.Course, error) {
	var raw []CanvasCourse
	if err := s.doRequest(ctx, "/api/v1/courses", &raw); err != nil {
		return nil, err
	}

	var courses []models.Course
	for _, c := range raw {
		if c.Calendar == nil {
			continue
		}
		courses = append(courses, models.Course{
			ID:          c.ID.String(),
			Name:        c.Name,
			HasCalendar: true,
		})
	}
	return courses, nil
}

// ListAssignments retrieves a course's upcoming assignments ordered by due
// date, preserving the API's order.
func (s *CanvasService) ListAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	endpoint := fmt.Sprintf("/api/v1/courses/%s/assignments?order_by=due_at&bucket=future", courseID)

	var raw []CanvasAssignment
	if err := s.doRequest(ctx, endpoint, &raw); err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, 0, len(raw))
	for _, a := range raw {
		submissionType := ""
		if len(a.SubmissionTypes) > 0 {
			submissionType = a.SubmissionTypes[0]
		}

		millis, ok := duedate.Normalize(a.DueAt, s.policy)
		assignments = append(assignments, models.Assignment{
			Name:           a.Name,
			RawDueDate:     a.DueAt,
			SubmissionType: submissionType,
			URL:            a.HTMLURL,
			DueMillis:      millis,
			DueValid:       ok,
		})
	}
	return assignments, nil
}
