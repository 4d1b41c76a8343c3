package keyframes

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"videodigest/internal/logging"
)

const (
	// DefaultDedupThreshold is the Hamming distance below which two frames
	// are considered near-duplicates.
	DefaultDedupThreshold = 8
	// DefaultMaxFrames caps the retained set per digest.
	DefaultMaxFrames = 12

	hashWorkers = 4
)

// Selector extracts candidate frames, drops perceptual near-duplicates, and
// caps the survivors to a fixed budget.
type Selector struct {
	extract   ExtractFunc
	hash      HashFunc
	logger    *slog.Logger
	threshold int
	maxFrames int
}

// SelectorOption adjusts Selector construction.
type SelectorOption func(*Selector)

// WithExtractor overrides the frame extraction command, primarily for tests.
func WithExtractor(fn ExtractFunc) SelectorOption {
	return func(s *Selector) {
		if fn != nil {
			s.extract = fn
		}
	}
}

// WithHasher overrides the perceptual hash function, primarily for tests.
func WithHasher(fn HashFunc) SelectorOption {
	return func(s *Selector) {
		if fn != nil {
			s.hash = fn
		}
	}
}

// WithThreshold sets the dedup Hamming distance threshold.
func WithThreshold(threshold int) SelectorOption {
	return func(s *Selector) {
		if threshold > 0 {
			s.threshold = threshold
		}
	}
}

// WithMaxFrames sets the retained frame budget.
func WithMaxFrames(maxFrames int) SelectorOption {
	return func(s *Selector) {
		if maxFrames > 0 {
			s.maxFrames = maxFrames
		}
	}
}

// NewSelector builds a Selector around the ffmpeg binary at ffmpegBinary.
func NewSelector(ffmpegBinary string, logger *slog.Logger, opts ...SelectorOption) *Selector {
	selector := &Selector{
		extract:   NewFFmpegExtractor(ffmpegBinary),
		hash:      PerceptionHash,
		logger:    logging.NewComponentLogger(logger, "keyframes"),
		threshold: DefaultDedupThreshold,
		maxFrames: DefaultMaxFrames,
	}
	for _, opt := range opts {
		opt(selector)
	}
	return selector
}

type candidate struct {
	seconds float64
	path    string
	hash    uint64
}

// Select extracts a frame for each target into dir, hashes the results,
// drops near-duplicates in timestamp order, and caps the survivors to the
// frame budget while always keeping the first and last. Per-frame failures
// are tolerated and counted in the report; Select only returns an error when
// the context is done.
func (s *Selector) Select(ctx context.Context, video string, targets []Timestamp, dir string) ([]Frame, Report, error) {
	report := Report{Requested: len(targets)}
	if len(targets) == 0 {
		return nil, report, nil
	}

	sorted := make([]Timestamp, len(targets))
	copy(sorted, targets)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Seconds < sorted[j].Seconds })

	candidates := make([]*candidate, 0, len(sorted))
	for i, target := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		dest := filepath.Join(dir, fmt.Sprintf("candidate_%03d.jpg", i))
		if err := s.extract(ctx, video, target.Seconds, dest); err != nil {
			report.Failed++
			s.logger.Warn("frame extraction failed",
				logging.Float64("timestamp", target.Seconds),
				logging.Error(err))
			continue
		}
		candidates = append(candidates, &candidate{seconds: target.Seconds, path: dest})
	}

	hashed, hashFailures, err := s.hashCandidates(ctx, candidates)
	if err != nil {
		return nil, report, err
	}
	report.Failed += hashFailures
	report.Extracted = len(hashed)

	kept := s.dedupe(hashed, &report)
	kept = capFrames(kept, s.maxFrames)

	frames := make([]Frame, 0, len(kept))
	for i, c := range kept {
		frames = append(frames, Frame{
			Index:   i + 1,
			Seconds: c.seconds,
			Path:    c.path,
			Hash:    c.hash,
		})
	}
	s.logger.Info("keyframe selection complete",
		logging.Int("requested", report.Requested),
		logging.Int("extracted", report.Extracted),
		logging.Int("dropped_similar", report.DroppedSimilar),
		logging.Int("failed", report.Failed),
		logging.Int("retained", len(frames)))
	return frames, report, nil
}

func (s *Selector) hashCandidates(ctx context.Context, candidates []*candidate) ([]*candidate, int, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(hashWorkers)
	failed := make([]bool, len(candidates))
	for i, c := range candidates {
		i, c := i, c
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			hash, err := s.hash(c.path)
			if err != nil {
				failed[i] = true
				s.logger.Warn("frame hash failed",
					logging.String("path", c.path),
					logging.Error(err))
				return nil
			}
			c.hash = hash
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, 0, err
	}

	hashed := make([]*candidate, 0, len(candidates))
	failures := 0
	for i, c := range candidates {
		if failed[i] {
			failures++
			continue
		}
		hashed = append(hashed, c)
	}
	return hashed, failures, nil
}

// dedupe walks candidates in timestamp order and keeps a frame only when its
// hash is at least the threshold distance from every frame kept so far.
func (s *Selector) dedupe(candidates []*candidate, report *Report) []*candidate {
	kept := make([]*candidate, 0, len(candidates))
	for _, c := range candidates {
		duplicate := false
		for _, k := range kept {
			if HammingDistance(c.hash, k.hash) < s.threshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			report.DroppedSimilar++
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// capFrames trims the kept set to maxFrames by picking evenly spaced indices
// that always include the first and last survivor.
func capFrames(kept []*candidate, maxFrames int) []*candidate {
	if maxFrames <= 0 || len(kept) <= maxFrames {
		return kept
	}
	if maxFrames == 1 {
		return kept[:1]
	}
	out := make([]*candidate, 0, maxFrames)
	step := float64(len(kept)-1) / float64(maxFrames-1)
	prev := -1
	for i := 0; i < maxFrames; i++ {
		idx := int(math.Round(float64(i) * step))
		if idx <= prev {
			idx = prev + 1
		}
		if idx >= len(kept) {
			idx = len(kept) - 1
		}
		out = append(out, kept[idx])
		prev = idx
	}
	return out
}
