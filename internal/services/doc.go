// Package services provides shared error classification and context helpers
// used across the pipeline service layer.
package services
