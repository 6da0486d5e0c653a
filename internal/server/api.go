package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"

	"duesync/internal/models"
	"duesync/internal/repositories"
	"duesync/internal/settings"
	"duesync/internal/shared"
	"duesync/internal/tasks"
)

// APIHandler serves the sync API. Implements the [Handler] interface.
type APIHandler struct {
	library *repositories.Library
	engine  *tasks.Engine
	store   *settings.Store
	logger  *log.Logger
	mux     *http.ServeMux
}

// NewAPIHandler creates the API handler over the library, engine and
// settings store.
func NewAPIHandler(library *repositories.Library, engine *tasks.Engine, store *settings.Store, logger *log.Logger) *APIHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	h := &APIHandler{
		library: library,
		engine:  engine,
		store:   store,
		logger:  logger,
		mux:     http.NewServeMux(),
	}

	h.mux.HandleFunc("POST /api/generate", h.handleGenerate)
	h.mux.HandleFunc("GET /api/courses", h.handleCourses)
	h.mux.HandleFunc("GET /api/courses/{id}/assignments", h.handleAssignments)
	h.mux.HandleFunc("POST /api/courses/{id}/hide", h.handleHide)
	h.mux.HandleFunc("POST /api/keys/{type}", h.handleSaveKey)
	h.mux.HandleFunc("POST /api/refresh", h.handleRefresh)
	h.mux.HandleFunc("GET /api/spaces", h.handleSpaces)

	return h
}

// Routes returns the HTTP routes this handler serves.
func (h *APIHandler) Routes() []string {
	return []string{"/api/"}
}

// ServeHTTP dispatches to the handler's internal mux.
func (h *APIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// handleGenerate runs one generation request, streaming engine events back
// as Server-Sent Events in emission order. The stream ends after the
// terminal done or processEnd event.
func (h *APIHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events := make(chan tasks.Event)
	go func() {
		defer close(events)
		if _, err := h.engine.Generate(r.Context(), req, events); err != nil {
			h.logger.Warn("generation ended with error", "error", err)
		}
	}()

	for event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			h.logger.Error("failed to encode event", "error", err)
			continue
		}
		fmt.Fprintf(w, "data: %s\n\n", data)
		flusher.Flush()
	}
}

func (h *APIHandler) handleCourses(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") == "true"

	courses, err := h.library.Courses(r.Context(), refresh)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"courses": courses})
}

func (h *APIHandler) handleAssignments(w http.ResponseWriter, r *http.Request) {
	course, err := h.library.Course(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"courseId":    course.ID,
		"courseName":  course.Name,
		"assignments": course.Assignments,
	})
}

// handleHide adds a course to the ignore list. The id "-1" clears the list,
// un-hiding every course.
func (h *APIHandler) handleHide(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.library.Hide(id); err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"hidden": id})
}

// handleSaveKey stores a credential. The "clickup" type also accepts a
// default space id alongside the key.
func (h *APIHandler) handleSaveKey(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Key            string `json:"key"`
		DefaultSpaceID string `json:"defaultSpaceId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Key == "" {
		h.writeError(w, http.StatusBadRequest, fmt.Errorf("missing key"))
		return
	}

	keyType := r.PathValue("type")
	err := h.store.Mutate(func(doc *settings.Document) error {
		switch keyType {
		case "canvas":
			doc.Settings.CanvasKey = body.Key
		case "clickup":
			doc.Settings.ClickUpKey = body.Key
			if body.DefaultSpaceID != "" {
				doc.Settings.ClickUp.DefaultSpaceID = body.DefaultSpaceID
			}
		default:
			return fmt.Errorf("%w: unknown key type %q", shared.ErrValidation, keyType)
		}
		return nil
	})
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"saved": keyType})
}

// handleRefresh force-pulls both the course cache and the space/list tree.
func (h *APIHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	courses, err := h.library.Courses(r.Context(), true)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	spaces, err := h.library.RefreshSpaces(r.Context())
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{
		"courses": len(courses),
		"spaces":  len(spaces),
	})
}

func (h *APIHandler) handleSpaces(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "true"

	spaces, err := h.library.Spaces(r.Context(), force)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"spaces": spaces})
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *APIHandler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeFailure maps domain errors onto status codes: validation input errors
// are the client's fault, missing entities are 404, upstream service
// failures are 502.
func (h *APIHandler) writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, shared.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err)
	case errors.Is(err, shared.ErrAPIRequest), errors.Is(err, shared.ErrTransport), errors.Is(err, shared.ErrRemoteCall):
		h.writeError(w, http.StatusBadGateway, err)
	default:
		h.writeError(w, http.StatusInternalServerError, err)
	}
}
