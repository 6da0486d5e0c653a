// Package services implements the remote client facade: thin, typed request
// wrappers around the Canvas and ClickUp REST APIs.
//
// # Contracts
//
// [CourseSource] covers the read side (list courses, list assignments);
// [TaskSink] covers the destination (team identity, spaces, lists, task
// names, task creation). Both take a [context.Context] on every call and
// surface failures as typed errors — transport problems wrap
// shared.ErrTransport, remote rejections wrap shared.ErrAPIRequest — never
// panics.
//
// # Rate limiting
//
// [ClickUpService.CreateTask] waits on a token-bucket limiter before each
// write. The generation engine serializes creations per request; the limiter
// caps the aggregate write rate across concurrent requests.
//
// # Invalid due dates
//
// A [TaskCreate] whose DueValid flag is false never reaches the network:
// CreateTask answers with the [CodeInvalidDueDate] sentinel so the engine
// can report the item as skipped rather than failed.
package services
