// Package runstore persists pipeline run history in SQLite for the CLI and
// HTTP status surfaces.
package runstore
