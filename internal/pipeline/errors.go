package pipeline

import (
	"errors"
	"fmt"
)

// Fatal run classifications. A fatal condition aborts the run and surfaces a
// single classified error naming the stage at which it occurred.
var (
	// ErrSourceUnavailable means the reference could not be fetched.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrTranscriptionFailed means the speech-recognition fallback failed;
	// without a transcript no analysis is possible.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrAnalysisFailed means the main analysis stage exhausted its retries
	// with malformed or absent output.
	ErrAnalysisFailed = errors.New("analysis failed")
)

// Degradation notes recorded on the digest when a stage completes at reduced
// quality.
const (
	NoteDiagramDegraded = "diagram generation failed, digest has no concept map"
	NoteNoFrames        = "no keyframes could be extracted, digest has no screenshots"
)

func noteExtractionDegraded(failed, requested int) string {
	return fmt.Sprintf("%d of %d keyframes could not be extracted", failed, requested)
}

func fatal(marker error, stage string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", marker, stage)
	}
	return fmt.Errorf("%w: %s: %w", marker, stage, err)
}
