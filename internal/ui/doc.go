// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for task generation:
//  1. [CourseListView] : Browse and select Canvas courses
//  2. [AssignmentListView] : Preview assignments before generation
//  3. [ListPickView] : Pick the ClickUp list that receives the tasks
//  4. [ConfirmView] : Confirm the generation run
//  5. [GenerateView] : Monitor real-time engine events
//  6. [ResultView] : Display the run summary
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Engine events flow through a channel from the generation engine, one
// bubbletea message per event, so the progress display stays in step with the
// event stream.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
