package digest

import (
	"fmt"

	"videodigest/internal/services"
)

// ChapterTolerance returns the allowed slack at chapter boundaries for a
// video of the given duration: 5% of the duration or 15 seconds, whichever
// is larger.
func ChapterTolerance(duration float64) float64 {
	tolerance := duration * 0.05
	if tolerance < 15 {
		tolerance = 15
	}
	return tolerance
}

// ValidateChapters checks that chapters partition [0, duration]: ordered by
// start, non-overlapping, first starts near zero, last ends near duration,
// and no interior gap exceeds the tolerance.
func ValidateChapters(chapters []Chapter, duration float64) error {
	if len(chapters) == 0 {
		return chapterError("no chapters returned")
	}
	tolerance := ChapterTolerance(duration)
	for i, chapter := range chapters {
		if chapter.Title == "" {
			return chapterError(fmt.Sprintf("chapter %d has no title", i+1))
		}
		if chapter.Start < 0 || chapter.End <= chapter.Start {
			return chapterError(fmt.Sprintf("chapter %d has invalid range [%.1f, %.1f]",
				i+1, chapter.Start, chapter.End))
		}
		if i == 0 {
			continue
		}
		prev := chapters[i-1]
		if chapter.Start < prev.Start {
			return chapterError(fmt.Sprintf("chapter %d starts before chapter %d", i+1, i))
		}
		if chapter.Start < prev.End-tolerance {
			return chapterError(fmt.Sprintf("chapter %d overlaps chapter %d", i+1, i))
		}
		if chapter.Start > prev.End+tolerance {
			return chapterError(fmt.Sprintf("gap of %.1fs between chapters %d and %d exceeds tolerance",
				chapter.Start-prev.End, i, i+1))
		}
	}
	if chapters[0].Start > tolerance {
		return chapterError(fmt.Sprintf("first chapter starts at %.1fs, expected near 0", chapters[0].Start))
	}
	if duration > 0 {
		last := chapters[len(chapters)-1]
		if last.End < duration-tolerance {
			return chapterError(fmt.Sprintf("last chapter ends at %.1fs, expected near %.1fs", last.End, duration))
		}
	}
	return nil
}

func chapterError(message string) error {
	return services.Wrap(services.ErrValidation, "analyze", "chapters", message, nil)
}

// ValidateDiagram checks the concept-map invariants: unique node ids, exactly
// one root node, every edge endpoint resolving to a node, and the graph
// forming a tree reachable from the root. An empty diagram is valid.
func ValidateDiagram(d Diagram) error {
	if d.Empty() {
		if len(d.Edges) > 0 {
			return diagramError("edges present without nodes")
		}
		return nil
	}

	nodes := make(map[string]NodeKind, len(d.Nodes))
	var root string
	for _, node := range d.Nodes {
		if node.ID == "" || node.Label == "" {
			return diagramError("node missing id or label")
		}
		if _, dup := nodes[node.ID]; dup {
			return diagramError(fmt.Sprintf("duplicate node id %q", node.ID))
		}
		nodes[node.ID] = node.Kind
		if node.Kind == NodeRoot {
			if root != "" {
				return diagramError("multiple root nodes")
			}
			root = node.ID
		}
	}
	if root == "" {
		return diagramError("no root node")
	}

	children := make(map[string][]string, len(nodes))
	parents := make(map[string]int, len(nodes))
	for _, edge := range d.Edges {
		if _, ok := nodes[edge.From]; !ok {
			return diagramError(fmt.Sprintf("edge source %q does not exist", edge.From))
		}
		if _, ok := nodes[edge.To]; !ok {
			return diagramError(fmt.Sprintf("edge target %q does not exist", edge.To))
		}
		if edge.To == root {
			return diagramError("edge points at the root")
		}
		children[edge.From] = append(children[edge.From], edge.To)
		parents[edge.To]++
		if parents[edge.To] > 1 {
			return diagramError(fmt.Sprintf("node %q has multiple parents", edge.To))
		}
	}

	// A tree rooted at root with single parents cannot contain a cycle, so
	// reachability alone proves connected and acyclic.
	seen := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if seen[child] {
				return diagramError(fmt.Sprintf("node %q reached twice", child))
			}
			seen[child] = true
			queue = append(queue, child)
		}
	}
	if len(seen) != len(nodes) {
		return diagramError(fmt.Sprintf("%d nodes unreachable from the root", len(nodes)-len(seen)))
	}
	return nil
}

func diagramError(message string) error {
	return services.Wrap(services.ErrValidation, "diagram", "graph", message, nil)
}
