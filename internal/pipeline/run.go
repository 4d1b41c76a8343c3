package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"videodigest/internal/analysis"
	"videodigest/internal/digest"
	"videodigest/internal/keyframes"
	"videodigest/internal/logging"
	"videodigest/internal/mediacache"
	"videodigest/internal/reference"
	"videodigest/internal/runstore"
	"videodigest/internal/services"
	"videodigest/internal/services/ytdlp"
	"videodigest/internal/transcript"
)

// TimestampSource records which path produced the keyframe target timestamps.
type TimestampSource string

const (
	TimestampsDiscovered TimestampSource = "discovered"
	TimestampsUniform    TimestampSource = "uniform"
	TimestampsSkipped    TimestampSource = "skipped"
)

// Result is the tagged outcome of a run: the digest plus which fallback
// paths were taken, for callers and tests that need to observe them.
type Result struct {
	RunID            string
	Digest           *digest.Digest
	OutputDir        string
	TranscriptSource transcript.Source
	TimestampSource  TimestampSource
	FrameReport      keyframes.Report
}

// Run executes the full pipeline for a video reference and persists the
// digest. Fatal conditions return a classified error naming the failed
// stage; degraded conditions complete with notes on the digest.
func (r *Runner) Run(ctx context.Context, rawReference string, opts Options) (*Result, error) {
	opts.normalize()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	ref, err := reference.Parse(rawReference)
	if err != nil {
		return nil, err
	}

	runID := opts.RunID
	if runID == "" {
		runID = r.newRunID()
	}
	ctx = services.WithRunID(ctx, runID)
	logger := logging.WithContext(ctx, r.logger)

	workspace := filepath.Join(r.cfg.Paths.WorkDir, runID)
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "pipeline", "workspace", "create run workspace", err)
	}
	defer func() {
		if opts.KeepTemp {
			logger.Info("keeping run workspace", logging.String("workspace", workspace))
			return
		}
		if err := os.RemoveAll(workspace); err != nil {
			logger.Warn("failed to remove run workspace", logging.Error(err))
		}
	}()

	r.recordCreate(ctx, runID, ref)
	result, err := r.execute(ctx, logger, runID, ref, opts, workspace)
	if err != nil {
		r.recordFinish(ctx, runID, runstore.StatusFailed, "", err.Error(), nil)
		return nil, err
	}
	r.recordFinish(ctx, runID, runstore.StatusCompleted, result.OutputDir, "", result.Digest.DegradationNotes)
	return result, nil
}

func (r *Runner) execute(ctx context.Context, logger *slog.Logger, runID string, ref reference.Reference, opts Options, workspace string) (*Result, error) {
	result := &Result{RunID: runID}

	meta, err := r.fetchMetadata(ctx, logger, runID, ref)
	if err != nil {
		return nil, err
	}

	merged, err := r.acquireTranscript(ctx, logger, runID, ref, opts, workspace)
	if err != nil {
		return nil, err
	}
	result.TranscriptSource = merged.Source

	frames, report, timestampSource, err := r.selectKeyframes(ctx, logger, runID, ref, meta, merged, opts, workspace)
	if err != nil {
		return nil, err
	}
	result.FrameReport = report
	result.TimestampSource = timestampSource

	var notes []string
	if !opts.SkipKeyframes {
		if report.Failed > 0 {
			notes = append(notes, noteExtractionDegraded(report.Failed, report.Requested))
		}
		if len(frames) == 0 && report.Requested > 0 {
			notes = append(notes, NoteNoFrames)
		}
	}

	d, err := r.analyze(ctx, logger, runID, meta, merged, frames, opts)
	if err != nil {
		return nil, err
	}
	d.DegradationNotes = append(d.DegradationNotes, notes...)

	r.buildDiagram(ctx, logger, d, opts)

	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(r.cfg.Paths.OutputDir, ref.VideoID)
	}
	if err := r.assembler.Write(d, outputDir); err != nil {
		return nil, err
	}
	logger.Info("run complete",
		logging.String("output_dir", outputDir),
		logging.Int("chapters", len(d.Chapters)),
		logging.Int("keyframes", len(d.Keyframes)),
		logging.Int("degradations", len(d.DegradationNotes)))

	result.Digest = d
	result.OutputDir = outputDir
	return result, nil
}

func (r *Runner) fetchMetadata(ctx context.Context, logger *slog.Logger, runID string, ref reference.Reference) (ytdlp.Metadata, error) {
	stageCtx, done := r.beginStage(ctx, logger, runID, "fetch", runstore.StatusFetching, r.cfg.Workflow.MetadataTimeout)
	defer done()

	meta, err := r.media.FetchMetadata(stageCtx, ref.URL)
	if err != nil {
		return ytdlp.Metadata{}, fatal(ErrSourceUnavailable, "fetch", err)
	}
	return meta, nil
}

// acquireTranscript prefers an authored subtitle track and falls back to
// audio download plus speech recognition when none exists.
func (r *Runner) acquireTranscript(ctx context.Context, logger *slog.Logger, runID string, ref reference.Reference, opts Options, workspace string) (transcript.Transcript, error) {
	stageCtx, done := r.beginStage(ctx, logger, runID, "transcribe", runstore.StatusTranscribing, r.cfg.Workflow.DownloadTimeout)
	subtitlePath, subtitleLang, err := r.media.FetchSubtitles(stageCtx, ref.URL, ref.VideoID, opts.SubtitleLanguages, workspace)
	done()

	switch {
	case err == nil:
		segments, parseErr := transcript.ParseSRTFile(subtitlePath)
		if parseErr == nil && len(segments) > 0 {
			logger.Info("transcript from subtitle track",
				logging.String("subtitle_language", subtitleLang),
				logging.Int("cues", len(segments)))
			return transcript.Transcript{
				Segments: transcript.Merge(segments, opts.MergeWindowSeconds, opts.MergeGapSeconds),
				Source:   transcript.SourceSubtitles,
			}, nil
		}
		logger.Warn("subtitle track unusable, falling back to speech recognition",
			logging.Error(parseErr))
	case errors.Is(err, services.ErrNotFound):
		logger.Info("no subtitle track, falling back to speech recognition")
	default:
		return transcript.Transcript{}, fatal(ErrSourceUnavailable, "transcribe", err)
	}

	audioPath, err := r.fetchAudio(ctx, ref, workspace)
	if err != nil {
		return transcript.Transcript{}, fatal(ErrSourceUnavailable, "transcribe", err)
	}

	transcribeCtx, cancel := r.stageTimeout(ctx, r.cfg.Workflow.TranscribeTimeout)
	defer cancel()
	speech, err := r.transcriberFor(opts).Transcribe(transcribeCtx, audioPath, workspace, opts.Language)
	if err != nil {
		return transcript.Transcript{}, fatal(ErrTranscriptionFailed, "transcribe", err)
	}
	if len(speech.Segments) == 0 {
		return transcript.Transcript{}, fatal(ErrTranscriptionFailed, "transcribe",
			errors.New("speech recognition produced no segments"))
	}
	return transcript.Transcript{
		Segments: transcript.Merge(speech.Segments, opts.MergeWindowSeconds, opts.MergeGapSeconds),
		Source:   transcript.SourceSpeech,
	}, nil
}

func (r *Runner) selectKeyframes(ctx context.Context, logger *slog.Logger, runID string, ref reference.Reference, meta ytdlp.Metadata, merged transcript.Transcript, opts Options, workspace string) ([]keyframes.Frame, keyframes.Report, TimestampSource, error) {
	if opts.SkipKeyframes {
		logger.Info("keyframe extraction skipped")
		return nil, keyframes.Report{}, TimestampsSkipped, nil
	}
	stageCtx, done := r.beginStage(ctx, logger, runID, "extract", runstore.StatusExtracting, 0)
	defer done()

	videoPath, err := r.fetchVideo(stageCtx, ref, opts, workspace)
	if err != nil {
		return nil, keyframes.Report{}, "", fatal(ErrSourceUnavailable, "extract", err)
	}

	duration := float64(meta.DurationSeconds)
	targets, source := r.discoverTimestamps(stageCtx, logger, meta, merged, duration, opts)

	frames, report, err := r.selectorFor(opts).Select(stageCtx, videoPath, targets, workspace)
	if err != nil {
		return nil, report, source, err
	}
	return frames, report, source, nil
}

// discoverTimestamps runs the optional discovery stage; any failure falls
// back to uniform sampling so frames are always available.
func (r *Runner) discoverTimestamps(ctx context.Context, logger *slog.Logger, meta ytdlp.Metadata, merged transcript.Transcript, duration float64, opts Options) ([]keyframes.Timestamp, TimestampSource) {
	if !opts.SkipTimestampDiscovery {
		analysisCtx, cancel := r.stageTimeout(ctx, r.cfg.Workflow.AnalysisTimeout)
		defer cancel()
		targets, err := r.analyzer.KeyTimestamps(analysisCtx, meta.Title, merged, duration, opts.MaxFrames)
		if err == nil && len(targets) > 0 {
			return targets, TimestampsDiscovered
		}
		logger.Warn("timestamp discovery failed, sampling uniformly", logging.Error(err))
	}
	return keyframes.UniformTimestamps(duration, opts.MaxFrames), TimestampsUniform
}

func (r *Runner) analyze(ctx context.Context, logger *slog.Logger, runID string, meta ytdlp.Metadata, merged transcript.Transcript, frames []keyframes.Frame, opts Options) (*digest.Digest, error) {
	stageCtx, done := r.beginStage(ctx, logger, runID, "analyze", runstore.StatusAnalyzing, r.cfg.Workflow.AnalysisTimeout)
	defer done()

	selected := make([]digest.Keyframe, 0, len(frames))
	for _, frame := range frames {
		selected = append(selected, digest.Keyframe{
			Index:     frame.Index,
			Timestamp: frame.Seconds,
			Path:      frame.Path,
			Hash:      frame.Hash,
		})
	}

	summary, err := r.analyzer.Summarize(stageCtx, analysis.SummarizeRequest{
		Title:      meta.Title,
		Transcript: merged,
		Keyframes:  selected,
		Language:   opts.Language,
		Duration:   float64(meta.DurationSeconds),
	})
	if err != nil {
		return nil, fatal(ErrAnalysisFailed, "analyze", err)
	}

	return &digest.Digest{
		Meta: digest.Meta{
			VideoID:         meta.VideoID,
			URL:             reference.WatchURL(meta.VideoID),
			Title:           meta.Title,
			DurationSeconds: float64(meta.DurationSeconds),
			Channel:         meta.Channel,
		},
		Overview:  summary.Overview,
		Chapters:  summary.Chapters,
		Keyframes: selected,
		Language:  opts.Language,
	}, nil
}

// buildDiagram runs the supplementary diagram stage; failure degrades to an
// empty graph rather than aborting the run.
func (r *Runner) buildDiagram(ctx context.Context, logger *slog.Logger, d *digest.Digest, opts Options) {
	titles := make([]string, 0, len(d.Chapters))
	for _, chapter := range d.Chapters {
		titles = append(titles, chapter.Title)
	}
	diagramCtx, cancel := r.stageTimeout(ctx, r.cfg.Workflow.AnalysisTimeout)
	defer cancel()

	graph, err := r.analyzer.Diagram(diagramCtx, d.Meta.Title, d.Overview, titles, opts.Language)
	if err != nil {
		logger.Warn("diagram stage degraded to empty graph", logging.Error(err))
		d.Diagram = digest.Diagram{}
		d.DegradationNotes = append(d.DegradationNotes, NoteDiagramDegraded)
		return
	}
	d.Diagram = graph
}

// fetchAudio downloads the reference's audio, consulting the media cache
// when one is configured.
func (r *Runner) fetchAudio(ctx context.Context, ref reference.Reference, workspace string) (string, error) {
	fetch := func() (string, error) {
		downloadCtx, cancel := r.stageTimeout(ctx, r.cfg.Workflow.DownloadTimeout)
		defer cancel()
		return r.media.FetchAudio(downloadCtx, ref.URL, ref.VideoID, workspace)
	}
	return r.cachedFetch(ctx, ref.VideoID, mediacache.KindAudio, fetch)
}

// fetchVideo downloads the reference's video, consulting the media cache
// when one is configured.
func (r *Runner) fetchVideo(ctx context.Context, ref reference.Reference, opts Options, workspace string) (string, error) {
	fetch := func() (string, error) {
		downloadCtx, cancel := r.stageTimeout(ctx, r.cfg.Workflow.DownloadTimeout)
		defer cancel()
		return r.media.FetchVideo(downloadCtx, ref.URL, ref.VideoID, workspace, opts.VideoMaxHeight)
	}
	return r.cachedFetch(ctx, ref.VideoID, mediacache.KindVideo, fetch)
}

// cachedFetch serves a download through the advisory media cache. Cache
// failures after a successful download fall back to the downloaded file.
func (r *Runner) cachedFetch(ctx context.Context, videoID string, kind mediacache.Kind, fetch func() (string, error)) (string, error) {
	if r.cache == nil {
		return fetch()
	}
	var path string
	err := r.cache.WithLock(ctx, videoID, func() error {
		if cached, ok := r.cache.Get(videoID, kind); ok {
			r.logger.Debug("media cache hit",
				logging.String("video_id", videoID),
				logging.String("kind", string(kind)))
			path = cached
			return nil
		}
		downloaded, err := fetch()
		if err != nil {
			return err
		}
		cached, err := r.cache.Store(videoID, kind, downloaded)
		if err != nil {
			r.logger.Warn("media cache store failed", logging.Error(err))
			path = downloaded
			return nil
		}
		path = cached
		return nil
	})
	if err != nil {
		return "", err
	}
	return path, nil
}

// beginStage stamps the context with the stage name, records the status
// transition, and logs stage start/completion with duration.
func (r *Runner) beginStage(ctx context.Context, logger *slog.Logger, runID, stage string, status runstore.Status, timeoutSeconds int) (context.Context, func()) {
	stageCtx := services.WithStage(ctx, stage)
	stageCtx, cancel := r.stageTimeout(stageCtx, timeoutSeconds)
	r.recordStatus(stageCtx, runID, status)
	start := time.Now()
	logger.Info("stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String(logging.FieldStage, stage))
	return stageCtx, func() {
		cancel()
		logger.Info("stage finished",
			logging.String(logging.FieldEventType, "stage_complete"),
			logging.String(logging.FieldStage, stage),
			logging.Duration("duration", time.Since(start)))
	}
}

func (r *Runner) recordCreate(ctx context.Context, runID string, ref reference.Reference) {
	if r.store == nil {
		return
	}
	if _, err := r.store.CreateRun(ctx, runID, ref.VideoID, ref.URL); err != nil {
		r.logger.Warn("failed to record run", logging.Error(err))
	}
}

func (r *Runner) recordStatus(ctx context.Context, runID string, status runstore.Status) {
	if r.store == nil {
		return
	}
	if err := r.store.UpdateStatus(ctx, runID, status); err != nil {
		r.logger.Warn("failed to record run status",
			logging.String("status", string(status)),
			logging.Error(err))
	}
}

func (r *Runner) recordFinish(ctx context.Context, runID string, status runstore.Status, outputDir, errorMessage string, notes []string) {
	if r.store == nil {
		return
	}
	if err := r.store.FinishRun(ctx, runID, status, outputDir, errorMessage, notes); err != nil {
		r.logger.Warn("failed to record run outcome", logging.Error(err))
	}
}
