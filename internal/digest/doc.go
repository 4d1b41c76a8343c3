// Package digest defines the run artifact model, its structural invariants,
// and the assembler that persists summary.json, summary.md, and frame images.
package digest
