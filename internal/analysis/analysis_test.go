package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"

	"videodigest/internal/digest"
	"videodigest/internal/transcript"
)

type completerCall struct {
	system string
	user   string
	images int
}

type fakeCompleter struct {
	responses []string
	err       error
	calls     []completerCall
}

func (f *fakeCompleter) next(system, user string, images [][]byte) (string, error) {
	f.calls = append(f.calls, completerCall{system: system, user: user, images: len(images)})
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("fake completer exhausted")
	}
	response := f.responses[0]
	f.responses = f.responses[1:]
	return response, nil
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, system, user string) (string, error) {
	return f.next(system, user, nil)
}

func (f *fakeCompleter) CompleteJSONWithImages(ctx context.Context, system, user string, images [][]byte) (string, error) {
	return f.next(system, user, images)
}

func testAnalyzer(fake *fakeCompleter, opts ...Option) *Analyzer {
	opts = append(opts, WithImageReader(func(string) ([]byte, error) {
		return []byte("img"), nil
	}))
	return New(fake, nil, opts...)
}

func testTranscript() transcript.Transcript {
	return transcript.Transcript{
		Source: transcript.SourceSubtitles,
		Segments: []transcript.Segment{
			{Start: 0, End: 100, Text: "first part"},
			{Start: 100, End: 350, Text: "second part"},
			{Start: 350, End: 600, Text: "third part"},
		},
	}
}

func TestKeyTimestampsSortsClampsAndDedupes(t *testing.T) {
	fake := &fakeCompleter{responses: []string{
		`{"key_moments":[
			{"seconds": 620, "label": "end"},
			{"seconds": 10, "label": "intro"},
			{"seconds": 12, "label": "still intro"},
			{"seconds": -5, "label": "start"},
			{"seconds": 300, "label": "middle"}
		]}`,
	}}
	analyzer := testAnalyzer(fake)

	got, err := analyzer.KeyTimestamps(context.Background(), "demo", testTranscript(), 600, 8)
	if err != nil {
		t.Fatalf("KeyTimestamps returned error: %v", err)
	}
	want := []float64{0, 10, 300, 600}
	if len(got) != len(want) {
		t.Fatalf("expected %d timestamps, got %d: %v", len(want), len(got), got)
	}
	for i, ts := range got {
		if ts.Seconds != want[i] {
			t.Fatalf("timestamp %d = %v, want %v", i, ts.Seconds, want[i])
		}
	}
}

func TestKeyTimestampsEmptyResponseFails(t *testing.T) {
	fake := &fakeCompleter{responses: []string{`{"key_moments":[]}`}}
	if _, err := testAnalyzer(fake).KeyTimestamps(context.Background(), "demo", testTranscript(), 600, 8); err == nil {
		t.Fatal("expected error for empty key moments")
	}
}

const validSummary = `{
	"overview": "A demo video.",
	"chapters": [
		{"title": "Intro", "timestamp": "[00:00]", "start_seconds": 0, "summary": "opening"},
		{"title": "Middle", "timestamp": "[03:20]", "start_seconds": 200, "summary": "body"},
		{"title": "End", "timestamp": "[06:40]", "start_seconds": 400, "summary": "closing"}
	]
}`

// First chapter starts far from zero, which fails partition validation.
const lateStartSummary = `{
	"overview": "A demo video.",
	"chapters": [
		{"title": "Late", "timestamp": "[05:00]", "start_seconds": 300, "summary": "late"}
	]
}`

func summarizeReq(frames []digest.Keyframe) SummarizeRequest {
	return SummarizeRequest{
		Title:      "demo",
		Transcript: testTranscript(),
		Keyframes:  frames,
		Language:   "English",
		Duration:   600,
	}
}

func TestSummarizeFillsChapterEnds(t *testing.T) {
	fake := &fakeCompleter{responses: []string{validSummary}}
	result, err := testAnalyzer(fake).Summarize(context.Background(), summarizeReq(nil))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if result.Overview != "A demo video." {
		t.Fatalf("unexpected overview %q", result.Overview)
	}
	if len(result.Chapters) != 3 {
		t.Fatalf("expected 3 chapters, got %d", len(result.Chapters))
	}
	if result.Chapters[0].End != 200 || result.Chapters[1].End != 400 || result.Chapters[2].End != 600 {
		t.Fatalf("unexpected chapter ends: %+v", result.Chapters)
	}
}

func TestSummarizeCapsImagesPerCall(t *testing.T) {
	frames := []digest.Keyframe{
		{Index: 1, Timestamp: 10, Path: "a.jpg"},
		{Index: 2, Timestamp: 100, Path: "b.jpg"},
		{Index: 3, Timestamp: 200, Path: "c.jpg"},
		{Index: 4, Timestamp: 300, Path: "d.jpg"},
		{Index: 5, Timestamp: 400, Path: "e.jpg"},
		{Index: 6, Timestamp: 500, Path: "f.jpg"},
	}
	fake := &fakeCompleter{responses: []string{validSummary}}
	if _, err := testAnalyzer(fake).Summarize(context.Background(), summarizeReq(frames)); err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(fake.calls))
	}
	if fake.calls[0].images != 4 {
		t.Fatalf("expected 4 images attached, got %d", fake.calls[0].images)
	}
}

func TestSummarizeRetriesOnceWithStrictPrompt(t *testing.T) {
	fake := &fakeCompleter{responses: []string{lateStartSummary, validSummary}}
	result, err := testAnalyzer(fake).Summarize(context.Background(), summarizeReq(nil))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(fake.calls))
	}
	if strings.Contains(fake.calls[0].user, "structurally invalid") {
		t.Fatal("first prompt should not carry the strict suffix")
	}
	if !strings.Contains(fake.calls[1].user, "structurally invalid") {
		t.Fatal("retry prompt should carry the strict suffix")
	}
	if len(result.Chapters) != 3 {
		t.Fatalf("expected chapters from the retry, got %d", len(result.Chapters))
	}
}

func TestSummarizeFailsAfterExhaustedRetry(t *testing.T) {
	fake := &fakeCompleter{responses: []string{lateStartSummary, lateStartSummary}}
	if _, err := testAnalyzer(fake).Summarize(context.Background(), summarizeReq(nil)); err == nil {
		t.Fatal("expected error after exhausted retry")
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", len(fake.calls))
	}
}

func TestSummarizeChunksLongTranscript(t *testing.T) {
	responses := []string{
		`{"overview": "Part one.", "chapters": [
			{"title": "Intro", "start_seconds": 0, "summary": "a"}
		]}`,
		`{"overview": "Part two.", "chapters": [
			{"title": "Middle", "start_seconds": 200, "summary": "b"}
		]}`,
		`{"overview": "Part three.", "chapters": [
			{"title": "End", "start_seconds": 400, "summary": "c"}
		]}`,
	}
	frames := []digest.Keyframe{
		{Index: 1, Timestamp: 50, Path: "a.jpg"},
		{Index: 2, Timestamp: 250, Path: "b.jpg"},
		{Index: 3, Timestamp: 500, Path: "c.jpg"},
	}
	fake := &fakeCompleter{responses: responses}
	// A tiny budget forces one chunk per segment.
	analyzer := testAnalyzer(fake, WithMaxTranscriptChars(30))

	result, err := analyzer.Summarize(context.Background(), summarizeReq(frames))
	if err != nil {
		t.Fatalf("Summarize returned error: %v", err)
	}
	if len(fake.calls) != 3 {
		t.Fatalf("expected 3 chunk calls, got %d", len(fake.calls))
	}
	for i, call := range fake.calls {
		if call.images != 1 {
			t.Fatalf("chunk %d expected 1 in-span image, got %d", i, call.images)
		}
	}
	if result.Overview != "Part one. Part two. Part three." {
		t.Fatalf("unexpected merged overview %q", result.Overview)
	}
	if len(result.Chapters) != 3 || result.Chapters[2].End != 600 {
		t.Fatalf("unexpected merged chapters: %+v", result.Chapters)
	}
}

const validDiagramJSON = `{
	"nodes": [
		{"id": "root", "label": "core idea", "type": "root"},
		{"id": "p1", "label": "phase one", "type": "branch"},
		{"id": "p1a", "label": "an insight", "type": "leaf"}
	],
	"edges": [
		{"from": "root", "to": "p1"},
		{"from": "p1", "to": "p1a"}
	]
}`

const danglingDiagramJSON = `{
	"nodes": [{"id": "root", "label": "core idea", "type": "root"}],
	"edges": [{"from": "root", "to": "ghost"}]
}`

func TestDiagramValidGraph(t *testing.T) {
	fake := &fakeCompleter{responses: []string{validDiagramJSON}}
	graph, err := testAnalyzer(fake).Diagram(context.Background(), "demo", "overview", []string{"Intro"}, "English")
	if err != nil {
		t.Fatalf("Diagram returned error: %v", err)
	}
	if len(graph.Nodes) != 3 || len(graph.Edges) != 2 {
		t.Fatalf("unexpected graph: %+v", graph)
	}
	if graph.Nodes[0].Kind != digest.NodeRoot {
		t.Fatalf("expected root kind, got %s", graph.Nodes[0].Kind)
	}
}

func TestDiagramMapsLegacyKinds(t *testing.T) {
	fake := &fakeCompleter{responses: []string{`{
		"nodes": [
			{"id": "root", "label": "core idea", "type": "core"},
			{"id": "p1", "label": "phase one", "type": "phase"},
			{"id": "p1a", "label": "an insight", "type": "insight"}
		],
		"edges": [
			{"from": "root", "to": "p1"},
			{"from": "p1", "to": "p1a"}
		]
	}`}}
	graph, err := testAnalyzer(fake).Diagram(context.Background(), "demo", "overview", nil, "English")
	if err != nil {
		t.Fatalf("Diagram returned error: %v", err)
	}
	kinds := []digest.NodeKind{digest.NodeRoot, digest.NodeBranch, digest.NodeLeaf}
	for i, node := range graph.Nodes {
		if node.Kind != kinds[i] {
			t.Fatalf("node %d kind = %s, want %s", i, node.Kind, kinds[i])
		}
	}
}

func TestDiagramFailsAfterTwoInvalidGraphs(t *testing.T) {
	fake := &fakeCompleter{responses: []string{danglingDiagramJSON, danglingDiagramJSON}}
	if _, err := testAnalyzer(fake).Diagram(context.Background(), "demo", "overview", nil, "English"); err == nil {
		t.Fatal("expected error after two invalid graphs")
	}
	if len(fake.calls) != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", len(fake.calls))
	}
	if !strings.Contains(fake.calls[1].user, "structurally invalid") {
		t.Fatal("retry prompt should carry the strict suffix")
	}
}
