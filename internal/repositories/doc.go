// Package repositories implements the SQLite course cache and the library
// facade the generation engine reads from.
//
// [CourseRepository] persists courses and their assignments in source order,
// with soft deletes and atomic sequence generation for stable ordering.
// [Library] layers the read-through policy on top: courses are pulled from
// Canvas when the cache is stale (or on demand), assignments load lazily per
// course, and the ClickUp space/list tree lives in the settings document with
// its own refresh rules.
//
// The [NextSequence] function atomically increments per-table sequence
// counters in dedicated sequence tables.
package repositories
