package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"duesync/internal/models"
	"duesync/internal/shared"
)

// CourseRepository persists cached courses and their assignments.
//
// Course ids come from the source system, not generated locally. Assignments
// are owned rows: replaced wholesale whenever a course's assignment list is
// refreshed, with a position column preserving source order.
type CourseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new CourseRepository with the given database connection
func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course into the database with a generated sequence
func (r *CourseRepository) Create(course models.Course) error {
	if course.ID == "" {
		return fmt.Errorf("%w: course id is required", shared.ErrValidation)
	}
	if course.Name == "" {
		return fmt.Errorf("%w: course name is required", shared.ErrValidation)
	}

	sequence, err := NextSequence(r.db, "courses")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO courses (id, sequence, name, has_calendar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query, course.ID, sequence, course.Name, course.HasCalendar, now, now)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}

	return nil
}

// Get retrieves a course by ID, excluding soft-deleted courses. Assignments
// are not loaded; use [CourseRepository.Assignments].
func (r *CourseRepository) Get(id string) (*models.Course, error) {
	query := `
		SELECT id, name, has_calendar
		FROM courses
		WHERE id = ? AND deleted_at IS NULL
	`

	var course models.Course
	err := r.db.QueryRow(query, id).Scan(&course.ID, &course.Name, &course.HasCalendar)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: course %s", shared.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}

	return &course, nil
}

// List retrieves all cached courses in sequence order, excluding soft-deleted courses
func (r *CourseRepository) List() ([]models.Course, error) {
	query := `
		SELECT id, name, has_calendar
		FROM courses
		WHERE deleted_at IS NULL
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.Name, &course.HasCalendar); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return courses, nil
}

// Delete soft-deletes a course by ID
func (r *CourseRepository) Delete(id string) error {
	query := `
		UPDATE courses
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("course not found or already deleted: %s", id)
	}

	return nil
}

// ReplaceAll replaces the entire course cache with a fresh pull.
//
// Existing rows (including assignments) are removed rather than soft-deleted:
// the cache mirrors the source and carries no history of its own. The delete
// and every insert run in a single transaction, so a failed pull leaves the
// previous cache intact.
func (r *CourseRepository) ReplaceAll(courses []models.Course) error {
	for _, course := range courses {
		if course.ID == "" {
			return fmt.Errorf("%w: course id is required", shared.ErrValidation)
		}
		if course.Name == "" {
			return fmt.Errorf("%w: course name is required", shared.ErrValidation)
		}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM assignments"); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM courses"); err != nil {
		return fmt.Errorf("failed to clear courses: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO courses (id, sequence, name, has_calendar, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, course := range courses {
		sequence, err := nextSequence(tx, "courses")
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}
		if _, err := tx.Exec(query, course.ID, sequence, course.Name, course.HasCalendar, now, now); err != nil {
			return fmt.Errorf("failed to insert course: %w", err)
		}
		if err := insertAssignments(tx, course.ID, course.Assignments, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit course replacement: %w", err)
	}

	return nil
}

// ReplaceAssignments replaces a course's cached assignments with a fresh
// pull, preserving source order via the position column.
func (r *CourseRepository) ReplaceAssignments(courseID string, assignments []models.Assignment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM assignments WHERE course_id = ?", courseID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}

	if err := insertAssignments(tx, courseID, assignments, time.Now()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignment replacement: %w", err)
	}

	return nil
}

// insertAssignments inserts a course's assignment rows in source order.
func insertAssignments(q dbtx, courseID string, assignments []models.Assignment, now time.Time) error {
	query := `
		INSERT INTO assignments (id, course_id, position, name, raw_due_date, submission_type, url, due_millis, due_valid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, assignment := range assignments {
		_, err := q.Exec(query,
			shared.GenerateID(),
			courseID,
			i,
			assignment.Name,
			assignment.RawDueDate,
			assignment.SubmissionType,
			assignment.URL,
			assignment.DueMillis,
			assignment.DueValid,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	return nil
}

// Assignments retrieves a course's cached assignments in source order
func (r *CourseRepository) Assignments(courseID string) ([]models.Assignment, error) {
	query := `
		SELECT name, raw_due_date, submission_type, url, due_millis, due_valid
		FROM assignments
		WHERE course_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.Query(query, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		if err := rows.Scan(&a.Name, &a.RawDueDate, &a.SubmissionType, &a.URL, &a.DueMillis, &a.DueValid); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return assignments, nil
}
