// ClickUp API implementation of [TaskSink]
//
// Response types based on https://clickup.com/api/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"golang.org/x/time/rate"

	"duesync/internal/models"
	"duesync/internal/shared"
)

const defaultClickUpBaseURL = "https://api.clickup.com/api/v2"

type clickUpUser struct {
	User struct {
		ID json.Number `json:"id"`
	} `json:"user"`
}

type clickUpTeam struct {
	ID      string        `json:"id"`
	Members []clickUpUser `json:"members"`
}

type clickUpSpace struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type clickUpList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type clickUpFolder struct {
	ID    string        `json:"id"`
	Lists []clickUpList `json:"lists"`
}

type clickUpTask struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClickUpService implements [TaskSink] over the ClickUp REST API.
//
// Task creation is throttled by a [rate.Limiter]: the destination enforces
// per-token rate limits and the generation loop is deliberately sequential,
// so a single limiter covers all writes from this process.
type ClickUpService struct {
	baseURL    string
	token      string
	userID     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClickUpService creates a ClickUp client. requestsPerSecond bounds task
// creation; zero or negative disables throttling.
func NewClickUpService(baseURL, token string, client *http.Client, requestsPerSecond float64) *ClickUpService {
	if baseURL == "" {
		baseURL = defaultClickUpBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	var limiter *rate.Limiter
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}

	return &ClickUpService{
		baseURL:    baseURL,
		token:      token,
		httpClient: client,
		limiter:    limiter,
	}
}

func (s *ClickUpService) Name() string {
	return "ClickUp"
}

// SetUser sets the user id assigned to created tasks, normally the first
// team member returned by [ClickUpService.Team].
func (s *ClickUpService) SetUser(userID string) {
	s.userID = userID
}

// doRequest performs an authenticated request and decodes the JSON response
// into result when it is non-nil.
func (s *ClickUpService) doRequest(ctx context.Context, method, endpoint string, body, result any) (int, []byte, error) {
	if s.token == "" {
		return 0, nil, fmt.Errorf("%w: clickup key not set", shared.ErrMissingCredentials)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", s.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	if result != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.Unmarshal(data, result); err != nil {
			return resp.StatusCode, data, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, data, nil
}

// Team retrieves the first team and its first member's user id.
func (s *ClickUpService) Team(ctx context.Context) (*TeamInfo, error) {
	var response struct {
		Teams []clickUpTeam `json:"teams"`
	}

	code, _, err := s.doRequest(ctx, http.MethodGet, "/team", nil, &response)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("%w: clickup status %d", shared.ErrAPIRequest, code)
	}
	if len(response.Teams) == 0 {
		return nil, fmt.Errorf("%w: no teams for token", shared.ErrNotFound)
	}

	info := &TeamInfo{TeamID: response.Teams[0].ID}
	if len(response.Teams[0].Members) > 0 {
		info.UserID = response.Teams[0].Members[0].User.ID.String()
	}
	return info, nil
}

// Spaces retrieves the spaces under a team, lists unloaded.
func (s *ClickUpService) Spaces(ctx context.Context, teamID string) ([]models.Space, error) {
	var response struct {
		Spaces []clickUpSpace `json:"spaces"`
	}

	code, _, err := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/team/%s/space", teamID), nil, &response)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("%w: clickup status %d", shared.ErrAPIRequest, code)
	}

	spaces := make([]models.Space, 0, len(response.Spaces))
	for _, sp := range response.Spaces {
		spaces = append(spaces, models.Space{ID: sp.ID, Name: sp.Name})
	}
	return spaces, nil
}

// Lists retrieves all leaf lists under a space: folderless lists plus lists
// nested inside folders, flattened.
func (s *ClickUpService) Lists(ctx context.Context, spaceID string) ([]models.TargetList, error) {
	var listResp struct {
		Lists []clickUpList `json:"lists"`
	}
	code, _, err := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/space/%s/list", spaceID), nil, &listResp)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("%w: clickup status %d", shared.ErrAPIRequest, code)
	}

	var folderResp struct {
		Folders []clickUpFolder `json:"folders"`
	}
	code, _, err = s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/space/%s/folder", spaceID), nil, &folderResp)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("%w: clickup status %d", shared.ErrAPIRequest, code)
	}

	var lists []models.TargetList
	for _, l := range listResp.Lists {
		lists = append(lists, models.TargetList{ID: l.ID, Name: l.Name})
	}
	for _, folder := range folderResp.Folders {
		for _, l := range folder.Lists {
			lists = append(lists, models.TargetList{ID: l.ID, Name: l.Name})
		}
	}
	return lists, nil
}

// TaskNames retrieves the names of existing tasks in a list.
func (s *ClickUpService) TaskNames(ctx context.Context, listID string) ([]string, error) {
	var response struct {
		Tasks []clickUpTask `json:"tasks"`
	}

	code, _, err := s.doRequest(ctx, http.MethodGet, fmt.Sprintf("/list/%s/task", listID), nil, &response)
	if err != nil {
		return nil, err
	}
	if code < 200 || code >= 300 {
		return nil, fmt.Errorf("%w: clickup status %d", shared.ErrAPIRequest, code)
	}

	names := make([]string, 0, len(response.Tasks))
	for _, task := range response.Tasks {
		names = append(names, task.Name)
	}
	return names, nil
}

// CreateTask creates one task. An invalid due date short-circuits with
// [CodeInvalidDueDate] before any request is issued; remote non-2xx codes
// are returned in the result with the response body for diagnosis, not as
// errors.
func (s *ClickUpService) CreateTask(ctx context.Context, listID string, task TaskCreate) (*TaskResult, error) {
	if !task.DueValid {
		return &TaskResult{StatusCode: CodeInvalidDueDate}, nil
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
		}
	}

	body := map[string]any{
		"name":          task.Name,
		"description":   task.Description,
		"due_date":      task.DueMillis,
		"due_date_time": true,
		"notify_all":    false,
	}
	if s.userID != "" {
		if id, err := strconv.Atoi(s.userID); err == nil {
			body["assignees"] = []int{id}
		}
	}

	var created struct {
		ID string `json:"id"`
	}
	code, respBody, err := s.doRequest(ctx, http.MethodPost, fmt.Sprintf("/list/%s/task", listID), body, &created)
	if err != nil {
		return nil, err
	}

	return &TaskResult{ID: created.ID, StatusCode: code, Body: respBody}, nil
}
