package main

import (
	"context"
	"fmt"

	"duesync/internal/shared"

	"github.com/urfave/cli/v3"
)

// ClickUpSpaces prints the cached space/list tree, refreshing from ClickUp
// when the cache is empty or --refresh is passed.
func (r *Runner) ClickUpSpaces(ctx context.Context, cmd *cli.Command) error {
	refresh := cmd.Bool("refresh")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.library == nil {
		return fmt.Errorf("%w: library not initialized, run duesync setup", shared.ErrServiceUnavailable)
	}

	r.logger.Info("listing spaces", "refresh", refresh)

	spaces, err := r.library.Spaces(ctx, refresh)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(spaces, pretty)
	}

	if len(spaces) == 0 {
		return r.writePlain("No spaces found\n")
	}

	for _, space := range spaces {
		r.writePlain("%s (%s)\n", space.Name, space.ID)
		for _, list := range space.Lists {
			r.writePlain("  %s (%s)\n", list.Name, list.ID)
		}
	}

	return nil
}

// ClickUpTasks prints the task names in a target list.
func (r *Runner) ClickUpTasks(ctx context.Context, cmd *cli.Command) error {
	listID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")

	if listID == "" {
		return fmt.Errorf("%w: list id is required", shared.ErrMissingArgument)
	}
	if r.clickup == nil {
		return fmt.Errorf("%w: ClickUp service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("listing tasks", "list", listID)

	names, err := r.clickup.TaskNames(ctx, listID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(names, true)
	}

	if len(names) == 0 {
		return r.writePlain("No tasks in list %s\n", listID)
	}

	for i, name := range names {
		r.writePlain("%d. %s\n", i+1, name)
	}

	return nil
}
