package main

import (
	"context"
	"fmt"

	"duesync/internal/models"
	"duesync/internal/shared"
	"duesync/internal/tasks"

	"github.com/urfave/cli/v3"
)

// GenerateRun runs a full course → ClickUp task generation.
func (r *Runner) GenerateRun(ctx context.Context, cmd *cli.Command) error {
	req := models.GenerationRequest{
		CourseID:         cmd.String("course"),
		TargetListID:     cmd.String("list"),
		CutoffDate:       cmd.String("cutoff"),
		IgnoreDuplicates: !cmd.Bool("allow-duplicates"),
		IgnoreTags:       cmd.String("ignore-tags"),
	}

	if r.engine == nil {
		return fmt.Errorf("%w: generation engine not initialized, run duesync setup", shared.ErrServiceUnavailable)
	}

	r.logger.Info("starting generation", "course", req.CourseID, "list", req.TargetListID, "cutoff", req.CutoffDate)
	r.writePlain("Starting task generation...\n")
	r.writePlain("Course: %s\n", req.CourseID)
	r.writePlain("Target list: %s\n\n", req.TargetListID)

	// Drain events on a separate goroutine so the engine never blocks.
	events := make(chan tasks.Event, 50)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		for event := range events {
			switch event.Kind {
			case tasks.KindDataUpdate:
				r.writePlain("📥 %s\n", event.Status)
			case tasks.KindTaskStart:
				r.writePlain("[%3d%%] %s\n", event.Progress, event.Status)
			case tasks.KindTaskEnd:
				if event.Success {
					r.writePlain("       ✓ %s\n", event.Status)
				} else if event.Reason != tasks.ReasonNone {
					r.writePlain("       – skipped (%s)\n", event.Reason)
				} else {
					r.writePlain("       ✗ %s\n", event.Status)
				}
			case tasks.KindProcessEnd:
				r.writePlain("\n✗ Rejected: %s\n", event.Status)
			}
		}
	}()

	result, err := r.engine.Generate(ctx, req, events)
	close(events)
	<-drained

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Generation Complete!")
	r.writePlain("Created: %d/%d\n", result.Created, result.Total)
	if result.Duplicates > 0 {
		r.writePlain("Duplicates skipped: %d\n", result.Duplicates)
	}
	if result.IgnoredTags > 0 {
		r.writePlain("Ignored by tag: %d\n", result.IgnoredTags)
	}
	if result.PastCutoff > 0 {
		r.writePlain("Past cutoff: %d\n", result.PastCutoff)
	}
	if result.InvalidDates > 0 {
		r.writePlain("Invalid due dates: %d\n", result.InvalidDates)
	}
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
	}

	return nil
}
