// Package tasks implements the assignment-to-task generation engine.
//
// The core abstraction is [Engine], which turns one generation request into a
// sequence of task creations against a [services.TaskSink], reading course
// data through a [Catalog]. Runs emit [Event] records on a caller-supplied
// channel for real-time display in the CLI, TUI, or server stream.
//
// Event delivery is lossless and ordered: sends block until the consumer
// takes the event, with context cancellation as the only escape. Every run
// ends with exactly one terminal event, done on completion or processEnd on
// rejection.
//
// Per assignment, skip filters apply in a fixed order before any creation
// attempt: duplicate (fuzzy match against existing task names), ignored tag
// (case-insensitive substring), then cutoff date. An invalid due date is
// reported by the sink as a distinct non-error outcome and surfaces as reason
// invalidDate.
package tasks
