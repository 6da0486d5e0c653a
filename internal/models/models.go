package models

import (
	"fmt"
	"time"

	"duesync/internal/shared"
)

// Course represents a Canvas course with its loaded assignments.
//
// Assignments keep the order the API returned them in; the generation engine
// iterates them without re-sorting.
type Course struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	HasCalendar bool         `json:"hasCalendar"`
	Assignments []Assignment `json:"assignments,omitempty"`
}

// Assignment is a gradable item with a due date.
//
// DueMillis/DueValid cache the result of due-date normalization, applied once
// when the assignment is constructed. DueValid false is the explicit invalid
// marker: the raw date was absent or unparseable, never a silently wrong
// value.
type Assignment struct {
	Name           string `json:"name"`
	RawDueDate     string `json:"rawDueDate"`
	SubmissionType string `json:"submissionType,omitempty"`
	URL            string `json:"url,omitempty"`
	DueMillis      int64  `json:"dueMillis"`
	DueValid       bool   `json:"dueValid"`
}

// TargetList is a ClickUp list that receives created tasks.
type TargetList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Space groups target lists. Folder nesting on the ClickUp side is flattened
// away; only leaf lists appear here.
type Space struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Lists []TargetList `json:"lists"`
}

// CutoffNone is the explicit "no cutoff" sentinel on the wire.
const CutoffNone = "none"

// GenerationRequest is one caller-initiated batch task-creation operation
// scoped to one course and one target list. Field names match the inbound
// JSON message.
type GenerationRequest struct {
	CourseID         string `json:"courseId"`
	TargetListID     string `json:"targetListId"`
	CutoffDate       string `json:"cutoffDate"` // ISO date string or CutoffNone
	IgnoreDuplicates bool   `json:"ignoreDuplicates"`
	IgnoreTags       string `json:"ignoreTags,omitempty"` // comma-separated
}

// Validate checks that all required fields are present, naming the first
// missing field. No remote calls happen before this passes.
func (r GenerationRequest) Validate() error {
	switch {
	case r.TargetListID == "":
		return fmt.Errorf("%w: missing targetListId", shared.ErrValidation)
	case r.CutoffDate == "":
		return fmt.Errorf("%w: missing cutoffDate", shared.ErrValidation)
	case r.CourseID == "":
		return fmt.Errorf("%w: missing courseId", shared.ErrValidation)
	}
	if _, err := r.Cutoff(time.UTC); err != nil {
		return err
	}
	return nil
}

// Cutoff parses the cutoff date in the given location. A nil result means no
// cutoff was requested. The cutoff instant is midnight at the start of the
// given day; assignments due strictly after it are excluded.
func (r GenerationRequest) Cutoff(loc *time.Location) (*time.Time, error) {
	if r.CutoffDate == "" || r.CutoffDate == CutoffNone {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, r.CutoffDate, loc); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: invalid cutoffDate %q", shared.ErrValidation, r.CutoffDate)
}

// Tags returns the ignore tags as a trimmed slice.
func (r GenerationRequest) Tags() []string {
	return shared.SplitTags(r.IgnoreTags)
}

// ClickUpSettings holds the destination-side identity and the cached
// Space/list tree.
type ClickUpSettings struct {
	TeamID         string  `json:"teamId"`
	UserID         string  `json:"userId"`
	DefaultSpaceID string  `json:"defaultSpaceId,omitempty"`
	Spaces         []Space `json:"spaces"`
}

// Settings is the process-wide configuration document: loaded at startup,
// mutated through explicit save calls, persisted on every mutation.
type Settings struct {
	CanvasKey  string          `json:"canvasKey"`
	ClickUpKey string          `json:"clickUpKey"`
	Ignore     []string        `json:"ignore"`
	ClickUp    ClickUpSettings `json:"clickUp"`
}

// Ignored reports whether a course id is on the ignore list.
func (s Settings) Ignored(courseID string) bool {
	for _, id := range s.Ignore {
		if id == courseID {
			return true
		}
	}
	return false
}

// FindList walks the cached space tree for a target list by id.
func (s Settings) FindList(listID string) (*TargetList, bool) {
	for _, space := range s.ClickUp.Spaces {
		for i := range space.Lists {
			if space.Lists[i].ID == listID {
				return &space.Lists[i], true
			}
		}
	}
	return nil, false
}

// AnySpaceEmpty reports whether any cached space has zero lists, which
// triggers a list refresh on the next read.
func (s Settings) AnySpaceEmpty() bool {
	for _, space := range s.ClickUp.Spaces {
		if len(space.Lists) == 0 {
			return true
		}
	}
	return false
}
