package digest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"videodigest/internal/fileutil"
	"videodigest/internal/logging"
	"videodigest/internal/services"
)

const (
	markdownFileName = "summary.md"
	jsonFileName     = "summary.json"
	framesDirName    = "frames"
)

// Assembler persists a Digest under a run-scoped output directory.
type Assembler struct {
	logger *slog.Logger
}

// NewAssembler returns an Assembler logging through logger.
func NewAssembler(logger *slog.Logger) *Assembler {
	return &Assembler{logger: logging.NewComponentLogger(logger, "digest")}
}

// Write copies keyframe images into outputDir/frames, rewrites their paths
// to be relative to outputDir, and writes summary.json and summary.md. When
// the digest has no keyframes the frames directory is not created.
func (a *Assembler) Write(d *Digest, outputDir string) error {
	if d == nil {
		return services.Wrap(services.ErrValidation, "assemble", "write", "nil digest", nil)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "assemble", "write", "create output directory", err)
	}

	if err := a.copyFrames(d, outputDir); err != nil {
		return err
	}

	jsonPath := filepath.Join(outputDir, jsonFileName)
	payload, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return services.Wrap(services.ErrValidation, "assemble", "write", "encode digest", err)
	}
	if err := os.WriteFile(jsonPath, payload, 0o644); err != nil {
		return services.Wrap(services.ErrExternalTool, "assemble", "write", "write summary.json", err)
	}

	markdownPath := filepath.Join(outputDir, markdownFileName)
	if err := os.WriteFile(markdownPath, []byte(RenderMarkdown(d)), 0o644); err != nil {
		return services.Wrap(services.ErrExternalTool, "assemble", "write", "write summary.md", err)
	}

	a.logger.Info("digest written",
		logging.String("output_dir", outputDir),
		logging.Int("chapters", len(d.Chapters)),
		logging.Int("keyframes", len(d.Keyframes)))
	return nil
}

func (a *Assembler) copyFrames(d *Digest, outputDir string) error {
	if len(d.Keyframes) == 0 {
		return nil
	}
	framesDir := filepath.Join(outputDir, framesDirName)
	if err := os.MkdirAll(framesDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "assemble", "frames", "create frames directory", err)
	}
	for i := range d.Keyframes {
		frame := &d.Keyframes[i]
		name := FrameFileName(frame.Index)
		dest := filepath.Join(framesDir, name)
		if frame.Path != dest {
			if err := fileutil.CopyFile(frame.Path, dest); err != nil {
				return services.Wrap(services.ErrExternalTool, "assemble", "frames",
					fmt.Sprintf("copy frame %d", frame.Index), err)
			}
		}
		frame.Path = filepath.Join(framesDirName, name)
	}
	return nil
}

// FrameFileName returns the canonical file name for a keyframe index.
func FrameFileName(index int) string {
	return fmt.Sprintf("frame_%03d.jpg", index)
}
