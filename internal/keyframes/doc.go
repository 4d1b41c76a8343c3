// Package keyframes extracts still frames from a video with ffmpeg and
// selects a representative subset using perceptual hashing.
package keyframes
