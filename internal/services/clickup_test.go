package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClickUpService_Team(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/team" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "clickup-token" {
			t.Errorf("Authorization = %q, want raw token", got)
		}
		w.Write([]byte(`{"teams": [{"id": "team1", "members": [{"user": {"id": 42}}]}]}`))
	}))
	defer server.Close()

	svc := NewClickUpService(server.URL, "clickup-token", nil, 0)

	info, err := svc.Team(context.Background())
	if err != nil {
		t.Fatalf("Team() failed: %v", err)
	}
	if info.TeamID != "team1" || info.UserID != "42" {
		t.Errorf("Team() = %+v, want team1/42", info)
	}
}

func TestClickUpService_ListsFlattenFolders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/space/space1/list":
			w.Write([]byte(`{"lists": [{"id": "l1", "name": "Folderless"}]}`))
		case "/space/space1/folder":
			w.Write([]byte(`{"folders": [{"id": "f1", "lists": [{"id": "l2", "name": "Nested A"}, {"id": "l3", "name": "Nested B"}]}]}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	svc := NewClickUpService(server.URL, "clickup-token", nil, 0)

	lists, err := svc.Lists(context.Background(), "space1")
	if err != nil {
		t.Fatalf("Lists() failed: %v", err)
	}

	if len(lists) != 3 {
		t.Fatalf("Lists() returned %d lists, want 3 (folders flattened)", len(lists))
	}
	want := []string{"l1", "l2", "l3"}
	for i, id := range want {
		if lists[i].ID != id {
			t.Errorf("lists[%d].ID = %q, want %q", i, lists[i].ID, id)
		}
	}
}

func TestClickUpService_TaskNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/list/list1/task" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"tasks": [{"id": "t1", "name": "Homework 1"}, {"id": "t2", "name": "Quiz 1"}]}`))
	}))
	defer server.Close()

	svc := NewClickUpService(server.URL, "clickup-token", nil, 0)

	names, err := svc.TaskNames(context.Background(), "list1")
	if err != nil {
		t.Fatalf("TaskNames() failed: %v", err)
	}
	if len(names) != 2 || names[0] != "Homework 1" || names[1] != "Quiz 1" {
		t.Errorf("TaskNames() = %v", names)
	}
}

func TestClickUpService_CreateTask(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/list/list1/task" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode body: %v", err)
		}
		w.Write([]byte(`{"id": "task123"}`))
	}))
	defer server.Close()

	svc := NewClickUpService(server.URL, "clickup-token", nil, 0)
	svc.SetUser("42")

	result, err := svc.CreateTask(context.Background(), "list1", TaskCreate{
		Name:        "Homework 3",
		Description: "https://canvas.example.com/hw3",
		DueMillis:   1790000000000,
		DueValid:    true,
	})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}

	if result.StatusCode != CodeOK || result.ID != "task123" {
		t.Errorf("CreateTask() = %+v", result)
	}
	if received["name"] != "Homework 3" {
		t.Errorf("request name = %v", received["name"])
	}
	if received["due_date_time"] != true {
		t.Errorf("due_date_time = %v, want true", received["due_date_time"])
	}
	if _, ok := received["assignees"]; !ok {
		t.Error("request missing assignees")
	}
}

func TestClickUpService_CreateTaskInvalidDueDate(t *testing.T) {
	// An invalid due date must short-circuit with the sentinel code and
	// never reach the network.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request issued for invalid due date")
	}))
	defer server.Close()

	svc := NewClickUpService(server.URL, "clickup-token", nil, 0)

	result, err := svc.CreateTask(context.Background(), "list1", TaskCreate{Name: "Homework 3"})
	if err != nil {
		t.Fatalf("CreateTask() failed: %v", err)
	}
	if result.StatusCode != CodeInvalidDueDate {
		t.Errorf("StatusCode = %d, want %d", result.StatusCode, CodeInvalidDueDate)
	}
}

func TestClickUpService_CreateTaskRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"err": "Due date invalid", "ECODE": "INPUT_005"}`))
	}))
	defer server.Close()

	svc := NewClickUpService(server.URL, "clickup-token", nil, 0)

	result, err := svc.CreateTask(context.Background(), "list1", TaskCreate{Name: "Homework 3", DueMillis: 1, DueValid: true})
	if err != nil {
		t.Fatalf("CreateTask() should return result, not error, on remote rejection: %v", err)
	}
	if result.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want 400", result.StatusCode)
	}
	if len(result.Body) == 0 {
		t.Error("response body must be preserved for diagnosis")
	}
}
