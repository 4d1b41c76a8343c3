// Package language maps language names and codes used for digest output and
// subtitle track selection.
package language
