package analysis

import (
	"context"
	"sort"

	"videodigest/internal/keyframes"
	"videodigest/internal/logging"
	"videodigest/internal/services"
	"videodigest/internal/services/llm"
	"videodigest/internal/transcript"
)

type keyMomentsPayload struct {
	KeyMoments []struct {
		Seconds float64 `json:"seconds"`
		Label   string  `json:"label"`
	} `json:"key_moments"`
}

// KeyTimestamps asks the model for content-transition moments in the
// transcript. The result is sorted, clamped to [0, duration], and collapsed
// within a minimum spacing. Callers fall back to uniform sampling on error.
func (a *Analyzer) KeyTimestamps(ctx context.Context, title string, t transcript.Transcript, duration float64, count int) ([]keyframes.Timestamp, error) {
	if count <= 0 || len(t.Segments) == 0 {
		return nil, services.Wrap(services.ErrValidation, "timestamps", "discover", "nothing to discover", nil)
	}
	text := truncateText(segmentsToText(t.Segments), a.maxTranscriptChars)
	content, err := a.client.CompleteJSON(ctx, timestampsSystemPrompt, buildTimestampsPrompt(title, text, count))
	if err != nil {
		return nil, err
	}
	var payload keyMomentsPayload
	if err := llm.DecodeLLMJSON(content, &payload); err != nil {
		return nil, err
	}
	if len(payload.KeyMoments) == 0 {
		return nil, services.Wrap(services.ErrValidation, "timestamps", "discover", "no key moments returned", nil)
	}

	moments := make([]keyframes.Timestamp, 0, len(payload.KeyMoments))
	for _, moment := range payload.KeyMoments {
		seconds := moment.Seconds
		if seconds < 0 {
			seconds = 0
		}
		if duration > 0 && seconds > duration {
			seconds = duration
		}
		moments = append(moments, keyframes.Timestamp{Seconds: seconds, Reason: moment.Label})
	}
	sort.SliceStable(moments, func(i, j int) bool { return moments[i].Seconds < moments[j].Seconds })

	deduped := moments[:1]
	for _, moment := range moments[1:] {
		if moment.Seconds-deduped[len(deduped)-1].Seconds < minTimestampSpacing {
			continue
		}
		deduped = append(deduped, moment)
	}
	a.logger.Info("timestamp discovery complete",
		logging.Int("proposed", len(moments)),
		logging.Int("retained", len(deduped)))
	return deduped, nil
}
