package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"duesync/internal/models"
	"duesync/internal/services"
	"duesync/internal/settings"
	"duesync/internal/shared"
)

// Library is the read-through facade over the course cache, the settings
// document and the two remote services.
//
// Reads prefer the cache; pulls happen when the cache is stale (courses older
// than the staleness window, a space with zero lists) or on explicit force.
// The generation engine consumes Library through its Catalog interface and
// never talks to Canvas directly.
type Library struct {
	courses *CourseRepository
	store   *settings.Store
	source  services.CourseSource
	sink    services.TaskSink
	logger  *log.Logger
	now     func() time.Time
}

// NewLibrary creates a Library over the given repository, settings store and
// remote services.
func NewLibrary(courses *CourseRepository, store *settings.Store, source services.CourseSource, sink services.TaskSink, logger *log.Logger) *Library {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Library{
		courses: courses,
		store:   store,
		source:  source,
		sink:    sink,
		logger:  logger,
		now:     time.Now,
	}
}

// Courses returns the visible (non-hidden) courses, pulling from the source
// when the cache is stale, empty, or force is set.
func (l *Library) Courses(ctx context.Context, force bool) ([]models.Course, error) {
	doc, err := l.store.Load()
	if err != nil {
		return nil, err
	}

	cached, err := l.courses.List()
	if err != nil {
		return nil, err
	}

	if force || len(cached) == 0 || doc.CoursesStale(l.now()) {
		if cached, err = l.pullCourses(ctx); err != nil {
			return nil, err
		}
	}

	visible := make([]models.Course, 0, len(cached))
	for _, course := range cached {
		if !doc.Settings.Ignored(course.ID) {
			visible = append(visible, course)
		}
	}
	return visible, nil
}

// Course returns one course with its assignments loaded, pulling assignments
// from the source on first access.
func (l *Library) Course(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := l.courses.Get(courseID)
	if errors.Is(err, shared.ErrNotFound) {
		if _, err := l.pullCourses(ctx); err != nil {
			return nil, err
		}
		course, err = l.courses.Get(courseID)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	assignments, err := l.courses.Assignments(courseID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		if assignments, err = l.pullAssignments(ctx, courseID); err != nil {
			return nil, err
		}
	}

	course.Assignments = assignments
	return course, nil
}

// RefreshAssignments re-pulls one course's assignments from the source,
// replacing the cached rows.
func (l *Library) RefreshAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	return l.pullAssignments(ctx, courseID)
}

// Hide adds a course to the ignore list. The sentinel id "-1" clears the
// list, un-hiding every course.
func (l *Library) Hide(courseID string) error {
	return l.store.Mutate(func(doc *settings.Document) error {
		if courseID == "-1" {
			doc.Settings.Ignore = nil
			return nil
		}
		if doc.Settings.Ignored(courseID) {
			return nil
		}
		doc.Settings.Ignore = append(doc.Settings.Ignore, courseID)
		return nil
	})
}

// Unhide removes a course from the ignore list. The sentinel id "-1" clears
// the whole list.
func (l *Library) Unhide(courseID string) error {
	return l.store.Mutate(func(doc *settings.Document) error {
		if courseID == "-1" {
			doc.Settings.Ignore = nil
			return nil
		}
		kept := doc.Settings.Ignore[:0]
		for _, id := range doc.Settings.Ignore {
			if id != courseID {
				kept = append(kept, id)
			}
		}
		doc.Settings.Ignore = kept
		return nil
	})
}

// Spaces returns the cached space/list tree, refreshing it when the tree is
// empty, any space has zero lists, or force is set.
func (l *Library) Spaces(ctx context.Context, force bool) ([]models.Space, error) {
	doc, err := l.store.Load()
	if err != nil {
		return nil, err
	}
	if force || len(doc.Settings.ClickUp.Spaces) == 0 || doc.Settings.AnySpaceEmpty() {
		return l.RefreshSpaces(ctx)
	}
	return doc.Settings.ClickUp.Spaces, nil
}

// TargetList finds a list in the cached space tree, refreshing the tree first
// when it is empty or incomplete.
func (l *Library) TargetList(ctx context.Context, listID string) (*models.TargetList, error) {
	doc, err := l.store.Load()
	if err != nil {
		return nil, err
	}
	if len(doc.Settings.ClickUp.Spaces) == 0 || doc.Settings.AnySpaceEmpty() {
		if _, err := l.RefreshSpaces(ctx); err != nil {
			return nil, err
		}
		if doc, err = l.store.Load(); err != nil {
			return nil, err
		}
	}

	if list, ok := doc.Settings.FindList(listID); ok {
		return list, nil
	}
	return nil, fmt.Errorf("%w: list %s", shared.ErrNotFound, listID)
}

// RefreshSpaces pulls the team identity and the full space/list tree from the
// task sink and persists them in the settings document.
func (l *Library) RefreshSpaces(ctx context.Context) ([]models.Space, error) {
	team, err := l.sink.Team(ctx)
	if err != nil {
		return nil, err
	}

	spaces, err := l.sink.Spaces(ctx, team.TeamID)
	if err != nil {
		return nil, err
	}
	for i := range spaces {
		lists, err := l.sink.Lists(ctx, spaces[i].ID)
		if err != nil {
			return nil, err
		}
		spaces[i].Lists = lists
	}

	l.logger.Debug("refreshed space tree", "service", l.sink.Name(), "spaces", len(spaces))

	err = l.store.Mutate(func(doc *settings.Document) error {
		doc.Settings.ClickUp.TeamID = team.TeamID
		doc.Settings.ClickUp.UserID = team.UserID
		doc.Settings.ClickUp.Spaces = spaces
		return nil
	})
	if err != nil {
		return nil, err
	}
	return spaces, nil
}

// pullCourses replaces the course cache from the source and records the pull
// date. An empty pull clears the pull date so the next read tries again.
func (l *Library) pullCourses(ctx context.Context) ([]models.Course, error) {
	courses, err := l.source.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	if err := l.courses.ReplaceAll(courses); err != nil {
		return nil, err
	}

	l.logger.Debug("pulled courses", "service", l.source.Name(), "count", len(courses))

	err = l.store.Mutate(func(doc *settings.Document) error {
		if len(courses) == 0 {
			doc.LastPullDate = nil
			return nil
		}
		now := l.now()
		doc.LastPullDate = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return courses, nil
}

func (l *Library) pullAssignments(ctx context.Context, courseID string) ([]models.Assignment, error) {
	assignments, err := l.source.ListAssignments(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := l.courses.ReplaceAssignments(courseID, assignments); err != nil {
		return nil, err
	}
	l.logger.Debug("pulled assignments", "course", courseID, "count", len(assignments))
	return assignments, nil
}
