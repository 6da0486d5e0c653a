package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"duesync/internal/duedate"
	"duesync/internal/match"
	"duesync/internal/models"
	"duesync/internal/services"
	"duesync/internal/shared"
)

// Catalog is the engine's read side: cached course data and the target-list
// tree. Implemented by repositories.Library.
type Catalog interface {
	// Course returns one course with its assignments loaded, in source order.
	Course(ctx context.Context, courseID string) (*models.Course, error)

	// TargetList resolves a list id against the cached space tree.
	TargetList(ctx context.Context, listID string) (*models.TargetList, error)
}

// State tracks where a run is in its lifecycle.
type State int

const (
	Idle State = iota
	Validating
	Rejected
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Rejected:
		return "rejected"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return ""
	}
}

// GenerationResult summarizes one completed run.
type GenerationResult struct {
	Created      int
	Duplicates   int
	IgnoredTags  int
	PastCutoff   int
	InvalidDates int
	Failed       int
	Total        int
}

// Skipped is the count of assignments excluded by a filter rather than
// created or failed.
func (r *GenerationResult) Skipped() int {
	return r.Duplicates + r.IgnoredTags + r.PastCutoff + r.InvalidDates
}

// Engine turns one generation request into a sequence of task creations,
// streaming progress events to the caller.
//
// A run moves Idle → Validating → (Rejected | Running) → Completed. No calls
// reach the task system before validation passes. The assignment loop is
// strictly sequential: each creation waits for the previous one, letting the
// sink's rate limiter provide backpressure. Per-item failures never abort the
// loop.
type Engine struct {
	sink    services.TaskSink
	catalog Catalog
	policy  duedate.Policy
	logger  *log.Logger
}

// NewEngine creates an Engine over the given sink and catalog. The due-date
// policy supplies the location cutoff dates are interpreted in.
func NewEngine(sink services.TaskSink, catalog Catalog, policy duedate.Policy, logger *log.Logger) *Engine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Engine{
		sink:    sink,
		catalog: catalog,
		policy:  policy,
		logger:  logger,
	}
}

// send delivers an event in FIFO order, blocking until the consumer takes it.
// Context cancellation is the only escape; events are never dropped.
func (e *Engine) send(ctx context.Context, events chan<- Event, event Event) error {
	if events == nil {
		return nil
	}
	select {
	case events <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// reject terminates a run during validation: one processEnd event, then the
// validation error.
func (e *Engine) reject(ctx context.Context, events chan<- Event, err error) error {
	e.logger.Warn("generation rejected", "error", err)
	if sendErr := e.send(ctx, events, rejectedEvent(err)); sendErr != nil {
		return sendErr
	}
	return err
}

// Generate runs one request to completion, emitting events on the given
// channel. The channel is not closed; the terminal done or processEnd event
// marks the end of the stream.
func (e *Engine) Generate(ctx context.Context, req models.GenerationRequest, events chan<- Event) (*GenerationResult, error) {
	if e.sink == nil || e.catalog == nil {
		return nil, fmt.Errorf("%w: engine not initialized", shared.ErrServiceUnavailable)
	}

	e.logger.Debug("state change", "state", Validating)

	if err := req.Validate(); err != nil {
		return nil, e.reject(ctx, events, err)
	}

	course, err := e.catalog.Course(ctx, req.CourseID)
	if err != nil {
		return nil, e.reject(ctx, events, err)
	}
	if len(course.Assignments) == 0 {
		return nil, e.reject(ctx, events, fmt.Errorf("%w: course %s has no assignments", shared.ErrValidation, req.CourseID))
	}

	list, err := e.catalog.TargetList(ctx, req.TargetListID)
	if err != nil {
		return nil, e.reject(ctx, events, err)
	}

	cutoff, err := req.Cutoff(e.policy.Location)
	if err != nil {
		return nil, e.reject(ctx, events, err)
	}

	// Existing task names are fetched once per run; names created during the
	// run are appended so intra-run duplicates are caught without re-fetching.
	var existing []string
	if req.IgnoreDuplicates {
		if existing, err = e.sink.TaskNames(ctx, list.ID); err != nil {
			return nil, e.reject(ctx, events, err)
		}
	}

	tags := req.Tags()
	total := len(course.Assignments)
	result := &GenerationResult{Total: total}

	e.logger.Debug("state change", "state", Running)
	e.logger.Info("generating tasks",
		"course", course.Name, "list", list.Name, "assignments", total)

	if err := e.send(ctx, events, dataUpdateEvent(course.Name, total)); err != nil {
		return result, err
	}

	for i, assignment := range course.Assignments {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := e.send(ctx, events, taskStartEvent(i, total, assignment.Name)); err != nil {
			return result, err
		}

		end, created := e.processAssignment(ctx, req, list.ID, i, total, assignment, existing, tags, cutoff, result)
		if created != "" {
			existing = append(existing, created)
		}
		if err := e.send(ctx, events, end); err != nil {
			return result, err
		}
	}

	e.logger.Debug("state change", "state", Completed)
	if err := e.send(ctx, events, doneEvent(result)); err != nil {
		return result, err
	}
	return result, nil
}

// processAssignment applies the skip filters in order and attempts creation,
// returning the taskEnd event and the created name (empty when not created).
func (e *Engine) processAssignment(
	ctx context.Context,
	req models.GenerationRequest,
	listID string,
	index, total int,
	assignment models.Assignment,
	existing []string,
	tags []string,
	cutoff *time.Time,
	result *GenerationResult,
) (Event, string) {
	if req.IgnoreDuplicates {
		if m := match.Best(assignment.Name, existing); m.IsDuplicate() {
			result.Duplicates++
			status := fmt.Sprintf("Skipped (duplicate of %q): %s", m.Target, assignment.Name)
			return taskSkippedEvent(index, total, assignment.Name, ReasonDuplicate, status), ""
		}
	}

	if tag, ok := shared.ContainsFold(assignment.Name, tags); ok {
		result.IgnoredTags++
		status := fmt.Sprintf("Skipped (ignored tag %q): %s", tag, assignment.Name)
		return taskSkippedEvent(index, total, assignment.Name, ReasonIgnoreTag, status), ""
	}

	if cutoff != nil && assignment.DueValid && time.UnixMilli(assignment.DueMillis).After(*cutoff) {
		result.PastCutoff++
		status := fmt.Sprintf("Skipped (due after cutoff): %s", assignment.Name)
		return taskSkippedEvent(index, total, assignment.Name, ReasonCutOffDate, status), ""
	}

	created, err := e.sink.CreateTask(ctx, listID, services.TaskCreate{
		Name:        assignment.Name,
		Description: assignment.URL,
		DueMillis:   assignment.DueMillis,
		DueValid:    assignment.DueValid,
	})
	if err != nil {
		result.Failed++
		e.logger.Error("task creation failed", "assignment", assignment.Name, "error", err)
		return taskFailedEvent(index, total, assignment.Name, 0), ""
	}

	switch {
	case created.StatusCode == services.CodeInvalidDueDate:
		result.InvalidDates++
		return taskInvalidDateEvent(index, total, assignment.Name), ""
	case created.StatusCode >= 200 && created.StatusCode < 300:
		result.Created++
		return taskCreatedEvent(index, total, assignment.Name), assignment.Name
	default:
		result.Failed++
		e.logger.Error("task creation rejected",
			"assignment", assignment.Name, "status", created.StatusCode, "body", string(created.Body))
		return taskFailedEvent(index, total, assignment.Name, created.StatusCode), ""
	}
}
