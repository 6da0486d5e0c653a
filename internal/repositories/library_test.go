package repositories

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"duesync/internal/models"
	"duesync/internal/services"
	"duesync/internal/settings"
	mocks "duesync/internal/testing"
)

func setupLibrary(t *testing.T, source *mocks.MockCourseSource, sink *mocks.MockTaskSink) (*Library, *settings.Store) {
	t.Helper()

	store := settings.NewStore(filepath.Join(t.TempDir(), "persistent.json"))
	lib := NewLibrary(NewCourseRepository(setupTestDB(t)), store, source, sink, nil)
	return lib, store
}

func TestLibrary_Courses(t *testing.T) {
	ctx := context.Background()

	t.Run("empty cache pulls and records pull date", func(t *testing.T) {
		source := &mocks.MockCourseSource{Courses: []models.Course{
			{ID: "1", Name: "Biology"},
			{ID: "2", Name: "Chemistry"},
		}}
		lib, store := setupLibrary(t, source, &mocks.MockTaskSink{})

		courses, err := lib.Courses(ctx, false)
		if err != nil {
			t.Fatalf("Courses() failed: %v", err)
		}
		if len(courses) != 2 {
			t.Fatalf("got %d courses, want 2", len(courses))
		}
		if source.ListCoursesCalls != 1 {
			t.Errorf("ListCourses called %d times, want 1", source.ListCoursesCalls)
		}

		doc, err := store.Load()
		if err != nil {
			t.Fatalf("failed to load settings: %v", err)
		}
		if doc.LastPullDate == nil {
			t.Error("pull date not recorded")
		}
	})

	t.Run("fresh cache is not re-pulled", func(t *testing.T) {
		source := &mocks.MockCourseSource{Courses: []models.Course{{ID: "1", Name: "Biology"}}}
		lib, _ := setupLibrary(t, source, &mocks.MockTaskSink{})

		if _, err := lib.Courses(ctx, false); err != nil {
			t.Fatalf("first Courses() failed: %v", err)
		}
		if _, err := lib.Courses(ctx, false); err != nil {
			t.Fatalf("second Courses() failed: %v", err)
		}
		if source.ListCoursesCalls != 1 {
			t.Errorf("ListCourses called %d times, want 1 (second read served from cache)", source.ListCoursesCalls)
		}
	})

	t.Run("force re-pulls", func(t *testing.T) {
		source := &mocks.MockCourseSource{Courses: []models.Course{{ID: "1", Name: "Biology"}}}
		lib, _ := setupLibrary(t, source, &mocks.MockTaskSink{})

		if _, err := lib.Courses(ctx, false); err != nil {
			t.Fatalf("Courses() failed: %v", err)
		}
		if _, err := lib.Courses(ctx, true); err != nil {
			t.Fatalf("forced Courses() failed: %v", err)
		}
		if source.ListCoursesCalls != 2 {
			t.Errorf("ListCourses called %d times, want 2", source.ListCoursesCalls)
		}
	})

	t.Run("stale pull date triggers refresh", func(t *testing.T) {
		source := &mocks.MockCourseSource{Courses: []models.Course{{ID: "1", Name: "Biology"}}}
		lib, store := setupLibrary(t, source, &mocks.MockTaskSink{})

		if _, err := lib.Courses(ctx, false); err != nil {
			t.Fatalf("Courses() failed: %v", err)
		}

		err := store.Mutate(func(doc *settings.Document) error {
			old := time.Now().Add(-settings.StalenessWindow - time.Hour)
			doc.LastPullDate = &old
			return nil
		})
		if err != nil {
			t.Fatalf("failed to backdate pull: %v", err)
		}

		if _, err := lib.Courses(ctx, false); err != nil {
			t.Fatalf("Courses() failed: %v", err)
		}
		if source.ListCoursesCalls != 2 {
			t.Errorf("ListCourses called %d times, want 2 (stale cache)", source.ListCoursesCalls)
		}
	})

	t.Run("hidden courses are filtered out", func(t *testing.T) {
		source := &mocks.MockCourseSource{Courses: []models.Course{
			{ID: "1", Name: "Biology"},
			{ID: "2", Name: "Chemistry"},
		}}
		lib, _ := setupLibrary(t, source, &mocks.MockTaskSink{})

		if err := lib.Hide("2"); err != nil {
			t.Fatalf("Hide() failed: %v", err)
		}

		courses, err := lib.Courses(ctx, false)
		if err != nil {
			t.Fatalf("Courses() failed: %v", err)
		}
		if len(courses) != 1 || courses[0].ID != "1" {
			t.Errorf("got %+v, want only course 1", courses)
		}
	})

	t.Run("empty pull clears pull date", func(t *testing.T) {
		source := &mocks.MockCourseSource{}
		lib, store := setupLibrary(t, source, &mocks.MockTaskSink{})

		if _, err := lib.Courses(ctx, false); err != nil {
			t.Fatalf("Courses() failed: %v", err)
		}

		doc, err := store.Load()
		if err != nil {
			t.Fatalf("failed to load settings: %v", err)
		}
		if doc.LastPullDate != nil {
			t.Error("pull date should stay unset after an empty pull")
		}
	})
}

func TestLibrary_Course(t *testing.T) {
	ctx := context.Background()

	source := &mocks.MockCourseSource{
		Courses: []models.Course{{ID: "1", Name: "Biology"}},
		Assignments: map[string][]models.Assignment{
			"1": {
				{Name: "Homework 1", DueMillis: 100, DueValid: true},
				{Name: "Homework 2", DueMillis: 200, DueValid: true},
			},
		},
	}
	lib, _ := setupLibrary(t, source, &mocks.MockTaskSink{})

	course, err := lib.Course(ctx, "1")
	if err != nil {
		t.Fatalf("Course() failed: %v", err)
	}
	if course.Name != "Biology" || len(course.Assignments) != 2 {
		t.Fatalf("got %+v", course)
	}
	if course.Assignments[0].Name != "Homework 1" {
		t.Errorf("assignment order not preserved: %+v", course.Assignments)
	}

	// second read serves assignments from the cache
	if _, err := lib.Course(ctx, "1"); err != nil {
		t.Fatalf("second Course() failed: %v", err)
	}
	if source.ListAssignmentsCalls != 1 {
		t.Errorf("ListAssignments called %d times, want 1", source.ListAssignmentsCalls)
	}
}

func TestLibrary_HideUnhide(t *testing.T) {
	lib, store := setupLibrary(t, &mocks.MockCourseSource{}, &mocks.MockTaskSink{})

	for _, id := range []string{"1", "2", "3"} {
		if err := lib.Hide(id); err != nil {
			t.Fatalf("Hide(%s) failed: %v", id, err)
		}
	}

	if err := lib.Unhide("2"); err != nil {
		t.Fatalf("Unhide() failed: %v", err)
	}
	doc, _ := store.Load()
	if len(doc.Settings.Ignore) != 2 || doc.Settings.Ignored("2") {
		t.Errorf("ignore list = %v", doc.Settings.Ignore)
	}

	// "-1" un-hides everything
	if err := lib.Hide("-1"); err != nil {
		t.Fatalf("Hide(-1) failed: %v", err)
	}
	doc, _ = store.Load()
	if len(doc.Settings.Ignore) != 0 {
		t.Errorf("ignore list not cleared: %v", doc.Settings.Ignore)
	}
}

func TestLibrary_Spaces(t *testing.T) {
	ctx := context.Background()

	sink := &mocks.MockTaskSink{
		TeamInfo: services.TeamInfo{TeamID: "team1", UserID: "42"},
		SpaceList: []models.Space{
			{ID: "s1", Name: "School", Lists: []models.TargetList{{ID: "l1", Name: "Fall"}}},
		},
	}
	lib, store := setupLibrary(t, &mocks.MockCourseSource{}, sink)

	spaces, err := lib.Spaces(ctx, false)
	if err != nil {
		t.Fatalf("Spaces() failed: %v", err)
	}
	if len(spaces) != 1 || len(spaces[0].Lists) != 1 {
		t.Fatalf("got %+v", spaces)
	}

	doc, err := store.Load()
	if err != nil {
		t.Fatalf("failed to load settings: %v", err)
	}
	if doc.Settings.ClickUp.TeamID != "team1" || doc.Settings.ClickUp.UserID != "42" {
		t.Errorf("team identity not persisted: %+v", doc.Settings.ClickUp)
	}
	if len(doc.Settings.ClickUp.Spaces) != 1 {
		t.Errorf("space tree not persisted")
	}
}

func TestLibrary_TargetList(t *testing.T) {
	ctx := context.Background()

	sink := &mocks.MockTaskSink{
		TeamInfo: services.TeamInfo{TeamID: "team1"},
		SpaceList: []models.Space{
			{ID: "s1", Name: "School", Lists: []models.TargetList{{ID: "l1", Name: "Fall"}}},
		},
	}
	lib, _ := setupLibrary(t, &mocks.MockCourseSource{}, sink)

	list, err := lib.TargetList(ctx, "l1")
	if err != nil {
		t.Fatalf("TargetList() failed: %v", err)
	}
	if list.Name != "Fall" {
		t.Errorf("got %+v", list)
	}

	if _, err := lib.TargetList(ctx, "missing"); err == nil {
		t.Error("expected error for unknown list")
	}
}
