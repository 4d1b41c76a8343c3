package api

import (
	"time"

	"videodigest/internal/runstore"
)

// StartRunRequest is the POST /api/runs body. Zero-valued fields fall back
// to the server's configured defaults.
type StartRunRequest struct {
	URL           string `json:"url"`
	Language      string `json:"language,omitempty"`
	MaxFrames     int    `json:"max_frames,omitempty"`
	SkipKeyframes bool   `json:"skip_keyframes,omitempty"`
	OutputDir     string `json:"output_dir,omitempty"`
	WhisperModel  string `json:"whisper_model,omitempty"`
}

// StartRunResponse acknowledges an accepted run.
type StartRunResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// RunView is the JSON shape of a recorded run.
type RunView struct {
	RunID            string    `json:"run_id"`
	VideoID          string    `json:"video_id"`
	URL              string    `json:"url"`
	Status           string    `json:"status"`
	OutputDir        string    `json:"output_dir,omitempty"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	DegradationNotes []string  `json:"degradation_notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RunListResponse wraps GET /api/runs results.
type RunListResponse struct {
	Runs []RunView `json:"runs"`
}

func runView(run *runstore.Run) RunView {
	return RunView{
		RunID:            run.ID,
		VideoID:          run.VideoID,
		URL:              run.ReferenceURL,
		Status:           string(run.Status),
		OutputDir:        run.OutputDir,
		ErrorMessage:     run.ErrorMessage,
		DegradationNotes: run.DegradationNotes,
		CreatedAt:        run.CreatedAt,
		UpdatedAt:        run.UpdatedAt,
	}
}
