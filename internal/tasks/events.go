package tasks

import "fmt"

// Kind discriminates progress events on the generation stream.
type Kind string

const (
	// KindDataUpdate announces that a request was accepted and the course
	// data is loaded. Always the first event of a run.
	KindDataUpdate Kind = "dataUpdate"
	// KindTaskStart opens one assignment's processing window.
	KindTaskStart Kind = "taskStart"
	// KindTaskEnd closes one assignment's processing window with its outcome.
	KindTaskEnd Kind = "taskEnd"
	// KindProcessEnd terminates a run that was rejected or aborted.
	KindProcessEnd Kind = "processEnd"
	// KindDone terminates a completed run.
	KindDone Kind = "done"
)

// Reason explains why an assignment was skipped or failed.
type Reason string

const (
	ReasonNone        Reason = ""
	ReasonDuplicate   Reason = "duplicate"
	ReasonIgnoreTag   Reason = "ignoreTag"
	ReasonCutOffDate  Reason = "cutOffDate"
	ReasonInvalidDate Reason = "invalidDate"
	ReasonUnknown     Reason = "unknown"
)

// Event is one record on the generation progress stream.
//
// Events are emitted in FIFO order: dataUpdate, then taskStart/taskEnd pairs
// per assignment, then exactly one terminal done or processEnd. Progress is a
// whole percentage and never decreases within a run.
type Event struct {
	Kind           Kind   `json:"kind"`
	AssignmentName string `json:"assignmentName,omitempty"`
	Index          int    `json:"index"`
	Progress       int    `json:"progress"`
	Code           int    `json:"code,omitempty"`
	Status         string `json:"status,omitempty"`
	Reason         Reason `json:"reason,omitempty"`
	Success        bool   `json:"success"`
}

// Terminal reports whether the event closes the stream.
func (e Event) Terminal() bool {
	return e.Kind == KindDone || e.Kind == KindProcessEnd
}

func dataUpdateEvent(courseName string, total int) Event {
	return Event{
		Kind:   KindDataUpdate,
		Status: fmt.Sprintf("Loaded %d assignments from %s", total, courseName),
	}
}

func taskStartEvent(index, total int, name string) Event {
	return Event{
		Kind:           KindTaskStart,
		AssignmentName: name,
		Index:          index,
		Progress:       percent(index, total),
		Status:         fmt.Sprintf("[%d/%d] %s", index+1, total, name),
	}
}

func taskSkippedEvent(index, total int, name string, reason Reason, status string) Event {
	return Event{
		Kind:           KindTaskEnd,
		AssignmentName: name,
		Index:          index,
		Progress:       percent(index+1, total),
		Reason:         reason,
		Status:         status,
	}
}

func taskCreatedEvent(index, total int, name string) Event {
	return Event{
		Kind:           KindTaskEnd,
		AssignmentName: name,
		Index:          index,
		Progress:       percent(index+1, total),
		Code:           200,
		Success:        true,
		Status:         fmt.Sprintf("Created task: %s", name),
	}
}

func taskInvalidDateEvent(index, total int, name string) Event {
	return Event{
		Kind:           KindTaskEnd,
		AssignmentName: name,
		Index:          index,
		Progress:       percent(index+1, total),
		Code:           100,
		Reason:         ReasonInvalidDate,
		Status:         fmt.Sprintf("Skipped (invalid due date): %s", name),
	}
}

func taskFailedEvent(index, total int, name string, code int) Event {
	return Event{
		Kind:           KindTaskEnd,
		AssignmentName: name,
		Index:          index,
		Progress:       percent(index+1, total),
		Code:           code,
		Reason:         ReasonUnknown,
		Status:         fmt.Sprintf("Failed to create task: %s (status %d)", name, code),
	}
}

func doneEvent(result *GenerationResult) Event {
	return Event{
		Kind:     KindDone,
		Progress: 100,
		Code:     200,
		Success:  true,
		Status: fmt.Sprintf("Created %d of %d tasks (%d skipped, %d failed)",
			result.Created, result.Total, result.Skipped(), result.Failed),
	}
}

func rejectedEvent(err error) Event {
	return Event{
		Kind:   KindProcessEnd,
		Code:   400,
		Status: err.Error(),
	}
}

// percent is the whole-number progress after step of total items, rounded
// down.
func percent(step, total int) int {
	if total <= 0 {
		return 0
	}
	return step * 100 / total
}
