package main

import (
	"context"
	"fmt"

	"duesync/internal/formatter"
	"duesync/internal/shared"

	"github.com/urfave/cli/v3"
)

// CoursesList prints cached courses, pulling from Canvas when the cache is
// empty, stale, or --refresh is passed.
func (r *Runner) CoursesList(ctx context.Context, cmd *cli.Command) error {
	refresh := cmd.Bool("refresh")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	format := cmd.String("format")

	if r.library == nil {
		return fmt.Errorf("%w: course library not initialized, run duesync setup", shared.ErrServiceUnavailable)
	}

	r.logger.Info("listing courses", "refresh", refresh)

	courses, err := r.library.Courses(ctx, refresh)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(courses, pretty)
	}

	if format == formatter.FormatCSV {
		data, err := formatter.CoursesToCSV(courses)
		if err != nil {
			return err
		}
		_, err = r.output.Write(data)
		return err
	}

	r.output.Write(formatter.CoursesToText(courses))
	return nil
}

// CoursesAssignments prints a course's assignments, optionally exporting them
// to a file.
func (r *Runner) CoursesAssignments(ctx context.Context, cmd *cli.Command) error {
	courseID := cmd.StringArg("id")
	refresh := cmd.Bool("refresh")
	format := cmd.String("format")
	save := cmd.Bool("save")
	outputPath := cmd.String("output")

	if courseID == "" {
		return fmt.Errorf("%w: course id is required", shared.ErrMissingArgument)
	}
	if r.library == nil {
		return fmt.Errorf("%w: course library not initialized, run duesync setup", shared.ErrServiceUnavailable)
	}

	r.logger.Info("listing assignments", "course", courseID, "refresh", refresh)

	if refresh {
		if _, err := r.library.RefreshAssignments(ctx, courseID); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	course, err := r.library.Course(ctx, courseID)
	if err != nil {
		return err
	}

	if save || outputPath != "" {
		path, err := formatter.WriteExport(course, format, outputPath)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Saved %d assignments to %s\n", len(course.Assignments), path)
	}

	data, err := formatter.Export(course, format)
	if err != nil {
		return err
	}

	_, err = r.output.Write(data)
	return err
}

// CoursesHide hides a course from listings and generation. The id "-1"
// clears every hide at once.
func (r *Runner) CoursesHide(ctx context.Context, cmd *cli.Command) error {
	courseID := cmd.StringArg("id")
	if courseID == "" {
		return fmt.Errorf("%w: course id is required", shared.ErrMissingArgument)
	}
	if r.library == nil {
		return fmt.Errorf("%w: course library not initialized, run duesync setup", shared.ErrServiceUnavailable)
	}

	if err := r.library.Hide(courseID); err != nil {
		return err
	}

	if courseID == "-1" {
		return r.writePlain("✓ Cleared all hidden courses\n")
	}
	return r.writePlain("✓ Course %s hidden\n", courseID)
}

// CoursesUnhide reverses a hide. The id "-1" clears every hide at once.
func (r *Runner) CoursesUnhide(ctx context.Context, cmd *cli.Command) error {
	courseID := cmd.StringArg("id")
	if courseID == "" {
		return fmt.Errorf("%w: course id is required", shared.ErrMissingArgument)
	}
	if r.library == nil {
		return fmt.Errorf("%w: course library not initialized, run duesync setup", shared.ErrServiceUnavailable)
	}

	if err := r.library.Unhide(courseID); err != nil {
		return err
	}

	if courseID == "-1" {
		return r.writePlain("✓ Cleared all hidden courses\n")
	}
	return r.writePlain("✓ Course %s visible\n", courseID)
}
