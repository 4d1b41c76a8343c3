// Package whisper wraps the whisper CLI for speech recognition when no
// subtitle track is available.
package whisper
