// Package evaluator turns the run records of a sweep into a report with one
// row per configuration, in manifest order. An artifact that cannot be found
// or parsed becomes a "no result" row; it never fails the report.
package evaluator
