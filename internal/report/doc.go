// Package report publishes an evaluated sweep: a text table for the
// terminal, CSV and YAML exports, a SQLite history of past sweeps, and an
// upload of the CSV export to a pre-signed URL.
package report
