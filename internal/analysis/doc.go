// Package analysis drives the language-model stages of a digest run:
// timestamp discovery, the main overview/chapter pass over transcript and
// keyframes, and concept-map generation, each with structural validation and
// a single strict-re-prompt retry.
package analysis
