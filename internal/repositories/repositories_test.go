package repositories

import (
	"database/sql"
	"testing"

	"duesync/internal/models"
	"duesync/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestCourseRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		repo := NewCourseRepository(setupTestDB(t))

		course := models.Course{ID: "23412", Name: "Linear Algebra", HasCalendar: true}
		if err := repo.Create(course); err != nil {
			t.Fatalf("failed to create course: %v", err)
		}

		retrieved, err := repo.Get("23412")
		if err != nil {
			t.Fatalf("failed to get course: %v", err)
		}
		if retrieved.Name != "Linear Algebra" || !retrieved.HasCalendar {
			t.Errorf("got %+v", retrieved)
		}
	})

	t.Run("Create requires id and name", func(t *testing.T) {
		repo := NewCourseRepository(setupTestDB(t))

		if err := repo.Create(models.Course{Name: "No ID"}); err == nil {
			t.Error("expected error for missing id")
		}
		if err := repo.Create(models.Course{ID: "1"}); err == nil {
			t.Error("expected error for missing name")
		}
	})

	t.Run("List preserves insertion order", func(t *testing.T) {
		repo := NewCourseRepository(setupTestDB(t))

		for _, c := range []models.Course{
			{ID: "3", Name: "Calculus"},
			{ID: "1", Name: "Biology"},
			{ID: "2", Name: "Chemistry"},
		} {
			if err := repo.Create(c); err != nil {
				t.Fatalf("failed to create course: %v", err)
			}
		}

		courses, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list courses: %v", err)
		}
		if len(courses) != 3 {
			t.Fatalf("got %d courses, want 3", len(courses))
		}
		want := []string{"Calculus", "Biology", "Chemistry"}
		for i, name := range want {
			if courses[i].Name != name {
				t.Errorf("courses[%d].Name = %q, want %q", i, courses[i].Name, name)
			}
		}
	})

	t.Run("Delete hides course from Get and List", func(t *testing.T) {
		repo := NewCourseRepository(setupTestDB(t))

		if err := repo.Create(models.Course{ID: "1", Name: "Biology"}); err != nil {
			t.Fatalf("failed to create course: %v", err)
		}
		if err := repo.Delete("1"); err != nil {
			t.Fatalf("failed to delete course: %v", err)
		}

		if _, err := repo.Get("1"); err == nil {
			t.Error("expected deleted course to be invisible to Get")
		}
		courses, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list courses: %v", err)
		}
		if len(courses) != 0 {
			t.Errorf("got %d courses after delete, want 0", len(courses))
		}

		if err := repo.Delete("1"); err == nil {
			t.Error("expected error deleting already-deleted course")
		}
	})

	t.Run("ReplaceAssignments keeps source order", func(t *testing.T) {
		repo := NewCourseRepository(setupTestDB(t))

		if err := repo.Create(models.Course{ID: "1", Name: "Biology"}); err != nil {
			t.Fatalf("failed to create course: %v", err)
		}

		first := []models.Assignment{
			{Name: "Homework 1", RawDueDate: "2026-09-10T23:59:00Z", DueMillis: 100, DueValid: true},
			{Name: "Homework 2", RawDueDate: "2026-09-17T23:59:00Z", DueMillis: 200, DueValid: true},
		}
		if err := repo.ReplaceAssignments("1", first); err != nil {
			t.Fatalf("failed to replace assignments: %v", err)
		}

		second := []models.Assignment{
			{Name: "Quiz 1", DueValid: false},
			{Name: "Homework 1", DueMillis: 100, DueValid: true},
			{Name: "Homework 2", DueMillis: 200, DueValid: true},
		}
		if err := repo.ReplaceAssignments("1", second); err != nil {
			t.Fatalf("failed to replace assignments: %v", err)
		}

		assignments, err := repo.Assignments("1")
		if err != nil {
			t.Fatalf("failed to load assignments: %v", err)
		}
		if len(assignments) != 3 {
			t.Fatalf("got %d assignments, want 3 (old rows replaced)", len(assignments))
		}
		if assignments[0].Name != "Quiz 1" || assignments[0].DueValid {
			t.Errorf("assignments[0] = %+v", assignments[0])
		}
		if assignments[2].Name != "Homework 2" || assignments[2].DueMillis != 200 {
			t.Errorf("assignments[2] = %+v", assignments[2])
		}
	})

	t.Run("ReplaceAll swaps the whole cache", func(t *testing.T) {
		repo := NewCourseRepository(setupTestDB(t))

		if err := repo.Create(models.Course{ID: "old", Name: "Old Course"}); err != nil {
			t.Fatalf("failed to create course: %v", err)
		}

		fresh := []models.Course{
			{ID: "1", Name: "Biology", Assignments: []models.Assignment{{Name: "Lab 1", DueValid: true}}},
			{ID: "2", Name: "Chemistry"},
		}
		if err := repo.ReplaceAll(fresh); err != nil {
			t.Fatalf("failed to replace courses: %v", err)
		}

		courses, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list courses: %v", err)
		}
		if len(courses) != 2 {
			t.Fatalf("got %d courses, want 2", len(courses))
		}
		if _, err := repo.Get("old"); err == nil {
			t.Error("expected old course to be gone after ReplaceAll")
		}

		assignments, err := repo.Assignments("1")
		if err != nil {
			t.Fatalf("failed to load assignments: %v", err)
		}
		if len(assignments) != 1 || assignments[0].Name != "Lab 1" {
			t.Errorf("assignments = %+v", assignments)
		}
	})

	t.Run("failed ReplaceAll keeps the previous cache", func(t *testing.T) {
		repo := NewCourseRepository(setupTestDB(t))

		seed := []models.Course{
			{ID: "1", Name: "Biology"},
			{ID: "2", Name: "Chemistry"},
		}
		if err := repo.ReplaceAll(seed); err != nil {
			t.Fatalf("failed to seed courses: %v", err)
		}

		// Duplicate ids violate the primary key partway through the batch.
		bad := []models.Course{
			{ID: "new1", Name: "Physics"},
			{ID: "new1", Name: "Physics Again"},
		}
		if err := repo.ReplaceAll(bad); err == nil {
			t.Fatal("expected error for duplicate course ids")
		}

		courses, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list courses: %v", err)
		}
		if len(courses) != 2 || courses[0].ID != "1" || courses[1].ID != "2" {
			t.Errorf("expected seed cache to survive, got %+v", courses)
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	first, err := NextSequence(db, "courses")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	second, err := NextSequence(db, "courses")
	if err != nil {
		t.Fatalf("failed to get sequence: %v", err)
	}
	if second != first+1 {
		t.Errorf("sequence did not increment: %d then %d", first, second)
	}
}
