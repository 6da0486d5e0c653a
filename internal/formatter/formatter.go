// package formatter provides functions to export course and assignment data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"duesync/internal/models"
	"duesync/internal/shared"
)

// Format names accepted by [Export].
const (
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// noDueDate is printed for assignments whose due date failed normalization.
const noDueDate = "no due date"

// Export renders a course's assignments in the named format.
func Export(course *models.Course, format string) ([]byte, error) {
	switch format {
	case FormatCSV:
		return ExportToCSV(course)
	case FormatMarkdown:
		return ExportToMarkdown(course)
	case FormatText, "":
		return ExportToText(course)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}

// ExportToCSV converts a course's assignments to CSV format with columns: Name, Due, Raw Due Date, Submission Type, URL
func ExportToCSV(course *models.Course) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "Due", "Raw Due Date", "Submission Type", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, assignment := range course.Assignments {
		record := []string{
			assignment.Name,
			formatDue(assignment),
			assignment.RawDueDate,
			assignment.SubmissionType,
			assignment.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a course's assignments to Markdown format
func ExportToMarkdown(course *models.Course) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", course.Name))
	buf.WriteString(fmt.Sprintf("**Assignments**: %d\n\n", len(course.Assignments)))

	buf.WriteString("## Assignments\n\n")
	for i, assignment := range course.Assignments {
		urlPart := ""
		if assignment.URL != "" {
			urlPart = fmt.Sprintf(" ([link](%s))", assignment.URL)
		}
		buf.WriteString(fmt.Sprintf("%d. %s — due %s%s\n", i+1, assignment.Name, formatDue(assignment), urlPart))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a course's assignments to plain text format
func ExportToText(course *models.Course) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Course: %s\n", course.Name))
	buf.WriteString(fmt.Sprintf("Assignments: %d\n\n", len(course.Assignments)))

	for i, assignment := range course.Assignments {
		buf.WriteString(fmt.Sprintf("%d. %s (due %s)\n", i+1, assignment.Name, formatDue(assignment)))
	}

	return buf.Bytes(), nil
}

// CoursesToText renders a course list for terminal display, one line per
// course with its id.
func CoursesToText(courses []models.Course) []byte {
	var buf bytes.Buffer
	for _, course := range courses {
		buf.WriteString(fmt.Sprintf("%s\t%s\n", course.ID, course.Name))
	}
	return buf.Bytes()
}

// CoursesToCSV renders a course list as CSV with columns: ID, Name, Has Calendar
func CoursesToCSV(courses []models.Course) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Name", "Has Calendar"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, course := range courses {
		record := []string{course.ID, course.Name, strconv.FormatBool(course.HasCalendar)}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteExport renders a course's assignments and writes them to a file.
//
// Defaults to {course.ID}_assignments.{ext} as the filename.
func WriteExport(course *models.Course, format, path string) (string, error) {
	data, err := Export(course, format)
	if err != nil {
		return "", err
	}

	if path == "" {
		ext := map[string]string{FormatCSV: "csv", FormatMarkdown: "md"}[format]
		if ext == "" {
			ext = "txt"
		}
		path = fmt.Sprintf("%s_assignments.%s", course.ID, ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// formatDue renders an assignment's normalized due instant in local time, or
// the no-due-date marker when normalization declared it invalid.
func formatDue(assignment models.Assignment) string {
	if !assignment.DueValid {
		return noDueDate
	}
	return time.UnixMilli(assignment.DueMillis).Local().Format("Mon Jan 2 2006 15:04")
}
