package digest

import (
	"strings"
	"testing"
)

func validChapters() []Chapter {
	return []Chapter{
		{Title: "Intro", Start: 0, End: 120, Summary: "opening"},
		{Title: "Middle", Start: 120, End: 400, Summary: "body"},
		{Title: "End", Start: 400, End: 600, Summary: "closing"},
	}
}

func TestValidateChaptersAcceptsPartition(t *testing.T) {
	if err := ValidateChapters(validChapters(), 600); err != nil {
		t.Fatalf("expected valid partition, got %v", err)
	}
}

func TestValidateChaptersAcceptsBoundarySlack(t *testing.T) {
	chapters := []Chapter{
		{Title: "Intro", Start: 5, End: 290, Summary: "a"},
		{Title: "End", Start: 300, End: 580, Summary: "b"},
	}
	// Tolerance for 600s is 30s, so the 10s gap and the early finish pass.
	if err := ValidateChapters(chapters, 600); err != nil {
		t.Fatalf("expected boundary slack to be tolerated, got %v", err)
	}
}

func TestValidateChaptersRejections(t *testing.T) {
	cases := []struct {
		name     string
		chapters []Chapter
		want     string
	}{
		{"empty", nil, "no chapters"},
		{"missing title", []Chapter{{Start: 0, End: 600}}, "no title"},
		{"inverted range", []Chapter{{Title: "a", Start: 100, End: 50}}, "invalid range"},
		{"out of order", []Chapter{
			{Title: "a", Start: 300, End: 600},
			{Title: "b", Start: 0, End: 300},
		}, "starts before"},
		{"large gap", []Chapter{
			{Title: "a", Start: 0, End: 100},
			{Title: "b", Start: 400, End: 600},
		}, "exceeds tolerance"},
		{"overlap", []Chapter{
			{Title: "a", Start: 0, End: 400},
			{Title: "b", Start: 100, End: 600},
		}, "overlaps"},
		{"late start", []Chapter{{Title: "a", Start: 200, End: 600}}, "expected near 0"},
		{"early end", []Chapter{{Title: "a", Start: 0, End: 300}}, "expected near 600"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateChapters(tc.chapters, 600)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestChapterToleranceFloor(t *testing.T) {
	if got := ChapterTolerance(60); got != 15 {
		t.Fatalf("expected 15s floor for short videos, got %v", got)
	}
	if got := ChapterTolerance(3600); got != 180 {
		t.Fatalf("expected 180s for an hour video, got %v", got)
	}
}

func validDiagram() Diagram {
	return Diagram{
		Nodes: []DiagramNode{
			{ID: "root", Label: "core idea", Kind: NodeRoot},
			{ID: "p1", Label: "phase one", Kind: NodeBranch},
			{ID: "p1a", Label: "insight", Kind: NodeLeaf},
			{ID: "p2", Label: "phase two", Kind: NodeBranch},
		},
		Edges: []DiagramEdge{
			{From: "root", To: "p1"},
			{From: "p1", To: "p1a"},
			{From: "root", To: "p2"},
		},
	}
}

func TestValidateDiagramAcceptsTree(t *testing.T) {
	if err := ValidateDiagram(validDiagram()); err != nil {
		t.Fatalf("expected valid diagram, got %v", err)
	}
}

func TestValidateDiagramAcceptsEmpty(t *testing.T) {
	if err := ValidateDiagram(Diagram{}); err != nil {
		t.Fatalf("expected empty diagram to be valid, got %v", err)
	}
}

func TestValidateDiagramRejections(t *testing.T) {
	mutate := func(fn func(*Diagram)) Diagram {
		d := validDiagram()
		fn(&d)
		return d
	}
	cases := []struct {
		name    string
		diagram Diagram
		want    string
	}{
		{"duplicate id", mutate(func(d *Diagram) {
			d.Nodes = append(d.Nodes, DiagramNode{ID: "p1", Label: "again", Kind: NodeLeaf})
		}), "duplicate node id"},
		{"no root", mutate(func(d *Diagram) {
			d.Nodes[0].Kind = NodeBranch
		}), "no root node"},
		{"two roots", mutate(func(d *Diagram) {
			d.Nodes[1].Kind = NodeRoot
		}), "multiple root nodes"},
		{"dangling edge target", mutate(func(d *Diagram) {
			d.Edges = append(d.Edges, DiagramEdge{From: "p2", To: "ghost"})
		}), "does not exist"},
		{"dangling edge source", mutate(func(d *Diagram) {
			d.Edges = append(d.Edges, DiagramEdge{From: "ghost", To: "p2"})
		}), "does not exist"},
		{"edge into root", mutate(func(d *Diagram) {
			d.Edges = append(d.Edges, DiagramEdge{From: "p1", To: "root"})
		}), "points at the root"},
		{"multiple parents", mutate(func(d *Diagram) {
			d.Edges = append(d.Edges, DiagramEdge{From: "p2", To: "p1a"})
		}), "multiple parents"},
		{"disconnected node", mutate(func(d *Diagram) {
			d.Nodes = append(d.Nodes, DiagramNode{ID: "orphan", Label: "alone", Kind: NodeLeaf})
		}), "unreachable"},
		{"edges without nodes", Diagram{Edges: []DiagramEdge{{From: "a", To: "b"}}}, "without nodes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDiagram(tc.diagram)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "[00:00]"},
		{75.9, "[01:15]"},
		{3600, "[01:00:00]"},
		{3725, "[01:02:05]"},
		{-5, "[00:00]"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.seconds); got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
	if got := FormatDuration(754); got != "12:34" {
		t.Fatalf("FormatDuration(754) = %q, want 12:34", got)
	}
}
