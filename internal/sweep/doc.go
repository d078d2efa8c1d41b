// Package sweep turns a declarative parameter space into the ordered list of
// run configurations that a benchmark sweep executes.
//
// Enumeration is a pure function of the Space: the first declared dimension
// varies slowest and the last declared dimension varies fastest, exactly as a
// set of nested loops would. Every configuration carries its zero-based
// index in that order, which makes it addressable across the manifest, the
// run records, and the final report.
//
// The manifest is the persisted form of an enumeration: one configuration per
// line, option tokens joined by a single space, no header and no trailer.
package sweep
