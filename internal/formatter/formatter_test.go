package formatter

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"

	"duesync/internal/models"
)

func testCourse() *models.Course {
	return &models.Course{
		ID:   "c1",
		Name: "Biology",
		Assignments: []models.Assignment{
			{Name: "Homework 1", RawDueDate: "2026-09-10T23:59:00Z", URL: "https://canvas.example.com/hw1", DueMillis: 1789000000000, DueValid: true},
			{Name: "Reading Response", DueValid: false},
		},
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(testCourse())
	if err != nil {
		t.Fatalf("ExportToCSV() failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(records))
	}
	if records[1][0] != "Homework 1" {
		t.Errorf("records[1][0] = %q", records[1][0])
	}
	if records[2][1] != "no due date" {
		t.Errorf("invalid due date rendered as %q", records[2][1])
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(testCourse())
	if err != nil {
		t.Fatalf("ExportToMarkdown() failed: %v", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "# Biology") {
		t.Errorf("missing course heading:\n%s", text)
	}
	if !strings.Contains(text, "[link](https://canvas.example.com/hw1)") {
		t.Errorf("missing assignment link:\n%s", text)
	}
	if !strings.Contains(text, "no due date") {
		t.Errorf("invalid due date not marked:\n%s", text)
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(testCourse())
	if err != nil {
		t.Fatalf("ExportToText() failed: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "Course: Biology") || !strings.Contains(text, "1. Homework 1") {
		t.Errorf("unexpected output:\n%s", text)
	}
}

func TestExport_UnknownFormat(t *testing.T) {
	if _, err := Export(testCourse(), "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestCoursesToCSV(t *testing.T) {
	courses := []models.Course{
		{ID: "1", Name: "Biology", HasCalendar: true},
		{ID: "2", Name: "Chemistry"},
	}

	data, err := CoursesToCSV(courses)
	if err != nil {
		t.Fatalf("CoursesToCSV() failed: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 || records[1][2] != "true" || records[2][2] != "false" {
		t.Errorf("records = %v", records)
	}
}

func TestWriteExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")

	written, err := WriteExport(testCourse(), FormatMarkdown, path)
	if err != nil {
		t.Fatalf("WriteExport() failed: %v", err)
	}
	if written != path {
		t.Errorf("written path = %q, want %q", written, path)
	}
}
