// Package pipeline orchestrates a digest run end to end: metadata fetch,
// transcript acquisition with speech-recognition fallback, keyframe
// extraction, language-model analysis, and artifact assembly. Fatal
// conditions abort with a classified error; recoverable ones complete the
// run with degradation notes on the digest.
package pipeline
