package keyframes

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"videodigest/internal/services"
)

// DefaultFFmpegBinary is used when no explicit path is configured.
const DefaultFFmpegBinary = "ffmpeg"

// ExtractFunc writes a single frame from video at the given offset to dest.
type ExtractFunc func(ctx context.Context, video string, seconds float64, dest string) error

// NewFFmpegExtractor returns an ExtractFunc backed by the ffmpeg CLI. Seeking
// happens before the input flag so ffmpeg uses the fast keyframe seek path.
func NewFFmpegExtractor(binary string) ExtractFunc {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultFFmpegBinary
	}
	return func(ctx context.Context, video string, seconds float64, dest string) error {
		if seconds < 0 {
			seconds = 0
		}
		args := []string{
			"-y",
			"-ss", fmt.Sprintf("%.3f", seconds),
			"-i", video,
			"-vframes", "1",
			"-q:v", "2",
			dest,
		}
		cmd := exec.CommandContext(ctx, binary, args...)
		output, err := cmd.CombinedOutput()
		if err != nil {
			return wrapExtractError(ctx, seconds, output, err)
		}
		return nil
	}
}

func wrapExtractError(ctx context.Context, seconds float64, output []byte, err error) error {
	detail := strings.TrimSpace(string(output))
	if detail != "" {
		err = fmt.Errorf("%w: %s", err, lastLine(detail))
	}
	marker := services.ErrExternalTool
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		marker = services.ErrTimeout
	}
	message := fmt.Sprintf("extract frame at %.3fs", seconds)
	return services.Wrap(marker, "frames", "ffmpeg", message, err)
}

// lastLine keeps ffmpeg errors readable; the useful diagnostic is almost
// always the final stderr line.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			return trimmed
		}
	}
	return s
}
