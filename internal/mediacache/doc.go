// Package mediacache keeps downloaded media for repeat runs of the same
// reference, with per-reference file locking across processes.
package mediacache
