// Package status holds the shared mutable state a polling client reads: the
// batch [Tracker] and the [LogBuffer].
//
// # Tracker
//
// The Tracker is the single shared record for the active download batch. One
// mutex guards aggregate counters and the per-item records; every public
// operation takes the lock for its whole critical section and performs no I/O
// while holding it. File writes triggered by a finish event happen in the
// caller, keyed off the boolean returned by [Tracker.MarkFinished].
//
// Submitting a new batch replaces the table wholesale. Each [Tracker.Reset]
// issues a fresh generation tag and every mutator requires it, so workers of a
// superseded batch become silent no-ops even when item ids collide across
// batches.
//
// # LogBuffer
//
// The LogBuffer is an unbounded FIFO of human-readable lines written by
// workers and drained by the polling /logs endpoint. Unbounded growth is a
// known resource-limit tradeoff: the buffer lives only as long as the process
// and a polling client drains it every couple of seconds.
package status
