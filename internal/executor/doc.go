// Package executor drives the staged renderer through every configuration
// of a manifest, strictly one process at a time and in manifest order.
//
// A failing configuration never aborts the sweep: its cause is recorded on
// its RunRecord and execution moves on. Cancellation is honoured between
// runs only; configurations that were never started are recorded as
// skipped so that the result always has one record per manifest line.
package executor
