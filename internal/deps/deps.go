package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external tool videodigest shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements lists the external tools a digest run uses, with the
// configured executable names.
func Requirements(ytdlpBinary, ffmpegBinary, whisperBinary string) []Requirement {
	return []Requirement{
		{
			Name:        "yt-dlp",
			Command:     ytdlpBinary,
			Description: "Downloads metadata, subtitles, audio, and video",
		},
		{
			Name:        "FFmpeg",
			Command:     ffmpegBinary,
			Description: "Extracts keyframes from downloaded video",
		},
		{
			Name:        "Whisper",
			Command:     whisperBinary,
			Description: "Speech recognition fallback when no subtitle track exists",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
