// Package transcript parses subtitle cues and normalizes timed text into
// windowed blocks suitable for analysis.
package transcript
