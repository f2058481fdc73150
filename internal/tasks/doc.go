// Package tasks implements the concurrent download pipeline.
//
// The core abstraction is [BatchEngine], which fans a selected song list out
// across a fixed-width worker pool. Submission is fire-and-forget: the HTTP
// handler returns as soon as the status table is reset, and the batch runs on
// a detached goroutine tracked by the engine so shutdown can wait for
// in-flight work.
//
// Each worker owns exactly one item end-to-end and translates the engine's
// progress/completion/diagnostic callbacks into status-table mutations and
// log-channel lines. A single item's failure never aborts its siblings; only
// setup-phase failures (folder creation) are batch-fatal.
package tasks
