package analysis

import (
	"context"
	"strings"

	"videodigest/internal/digest"
	"videodigest/internal/logging"
	"videodigest/internal/services"
	"videodigest/internal/services/llm"
	"videodigest/internal/transcript"
)

// SummarizeRequest carries the inputs of the main analysis stage.
type SummarizeRequest struct {
	Title      string
	Transcript transcript.Transcript
	Keyframes  []digest.Keyframe
	Language   string
	Duration   float64
}

// SummarizeResult is the validated output of the main analysis stage.
type SummarizeResult struct {
	Overview string
	Chapters []digest.Chapter
}

type summaryPayload struct {
	Overview string `json:"overview"`
	Chapters []struct {
		Title        string  `json:"title"`
		Timestamp    string  `json:"timestamp"`
		StartSeconds float64 `json:"start_seconds"`
		Summary      string  `json:"summary"`
	} `json:"chapters"`
}

// Summarize runs the overview/chapters analysis over the transcript and
// selected keyframes. Long transcripts are chunked, each chunk analyzed with
// the frames inside its time span, and the results merged. Malformed output
// gets one full retry with stricter instructions before the error surfaces.
func (a *Analyzer) Summarize(ctx context.Context, req SummarizeRequest) (SummarizeResult, error) {
	if len(req.Transcript.Segments) == 0 {
		return SummarizeResult{}, services.Wrap(services.ErrValidation, "analyze", "summarize", "empty transcript", nil)
	}

	result, err := a.summarizeOnce(ctx, req, false)
	if err == nil {
		return result, nil
	}
	a.logger.Warn("main analysis returned malformed output, retrying with strict instructions",
		logging.Error(err))

	result, retryErr := a.summarizeOnce(ctx, req, true)
	if retryErr != nil {
		return SummarizeResult{}, retryErr
	}
	return result, nil
}

func (a *Analyzer) summarizeOnce(ctx context.Context, req SummarizeRequest, strict bool) (SummarizeResult, error) {
	chunks := chunkSegments(req.Transcript.Segments, a.maxTranscriptChars)

	var overviews []string
	var chapters []digest.Chapter
	for _, chunk := range chunks {
		payload, err := a.summarizeChunk(ctx, req, chunk, strict)
		if err != nil {
			return SummarizeResult{}, err
		}
		if payload.Overview != "" {
			overviews = append(overviews, payload.Overview)
		}
		for _, c := range payload.Chapters {
			chapters = append(chapters, digest.Chapter{
				Title:   c.Title,
				Start:   c.StartSeconds,
				Summary: c.Summary,
			})
		}
	}

	fillChapterEnds(chapters, req.Duration)
	if err := digest.ValidateChapters(chapters, req.Duration); err != nil {
		return SummarizeResult{}, err
	}
	a.logger.Info("main analysis complete",
		logging.Int("chunks", len(chunks)),
		logging.Int("chapters", len(chapters)))
	return SummarizeResult{
		Overview: strings.Join(overviews, " "),
		Chapters: chapters,
	}, nil
}

func (a *Analyzer) summarizeChunk(ctx context.Context, req SummarizeRequest, chunk []transcript.Segment, strict bool) (summaryPayload, error) {
	prompt := buildSummaryPrompt(req.Title, segmentsToText(chunk), req.Language, strict)
	images := a.loadChunkImages(req.Keyframes, chunk)

	content, err := a.client.CompleteJSONWithImages(ctx, summarySystemPrompt, prompt, images)
	if err != nil {
		return summaryPayload{}, err
	}
	var payload summaryPayload
	if err := llm.DecodeLLMJSON(content, &payload); err != nil {
		return summaryPayload{}, err
	}
	return payload, nil
}

// loadChunkImages reads the frames whose timestamps fall inside the chunk's
// span, capped to the per-call limit. Unreadable frames are skipped.
func (a *Analyzer) loadChunkImages(frames []digest.Keyframe, chunk []transcript.Segment) [][]byte {
	if len(frames) == 0 || len(chunk) == 0 || a.maxImagesPerCall == 0 {
		return nil
	}
	candidates := framesForSpan(frames, chunk[0].Start, chunk[len(chunk)-1].End)
	if len(candidates) > a.maxImagesPerCall {
		candidates = candidates[:a.maxImagesPerCall]
	}
	var images [][]byte
	for _, frame := range candidates {
		data, err := a.readImage(frame.Path)
		if err != nil {
			a.logger.Warn("skipping unreadable frame",
				logging.String("path", frame.Path),
				logging.Error(err))
			continue
		}
		images = append(images, data)
	}
	return images
}

// fillChapterEnds derives each chapter's end from its successor's start; the
// last chapter runs to the video duration.
func fillChapterEnds(chapters []digest.Chapter, duration float64) {
	for i := range chapters {
		if i+1 < len(chapters) {
			chapters[i].End = chapters[i+1].Start
		} else if duration > 0 {
			chapters[i].End = duration
		} else if chapters[i].End <= chapters[i].Start {
			chapters[i].End = chapters[i].Start + 1
		}
	}
}
