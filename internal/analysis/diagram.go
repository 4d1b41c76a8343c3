package analysis

import (
	"context"

	"videodigest/internal/digest"
	"videodigest/internal/logging"
	"videodigest/internal/services/llm"
)

type diagramPayload struct {
	Nodes []struct {
		ID    string `json:"id"`
		Label string `json:"label"`
		Type  string `json:"type"`
	} `json:"nodes"`
	Edges []struct {
		From string `json:"from"`
		To   string `json:"to"`
	} `json:"edges"`
}

// Diagram asks the model for a concept-map graph over the digest's overview
// and chapter titles. Malformed output gets one strict retry; callers degrade
// to an empty graph when the error surfaces.
func (a *Analyzer) Diagram(ctx context.Context, title, overview string, chapterTitles []string, language string) (digest.Diagram, error) {
	graph, err := a.diagramOnce(ctx, title, overview, chapterTitles, language, false)
	if err == nil {
		return graph, nil
	}
	a.logger.Warn("diagram stage returned invalid graph, retrying with strict instructions",
		logging.Error(err))

	graph, retryErr := a.diagramOnce(ctx, title, overview, chapterTitles, language, true)
	if retryErr != nil {
		return digest.Diagram{}, retryErr
	}
	return graph, nil
}

func (a *Analyzer) diagramOnce(ctx context.Context, title, overview string, chapterTitles []string, language string, strict bool) (digest.Diagram, error) {
	prompt := buildDiagramPrompt(title, overview, chapterTitles, language, strict)
	content, err := a.client.CompleteJSON(ctx, diagramSystemPrompt, prompt)
	if err != nil {
		return digest.Diagram{}, err
	}
	var payload diagramPayload
	if err := llm.DecodeLLMJSON(content, &payload); err != nil {
		return digest.Diagram{}, err
	}

	graph := digest.Diagram{}
	for _, node := range payload.Nodes {
		graph.Nodes = append(graph.Nodes, digest.DiagramNode{
			ID:    node.ID,
			Label: node.Label,
			Kind:  nodeKind(node.Type),
		})
	}
	for _, edge := range payload.Edges {
		graph.Edges = append(graph.Edges, digest.DiagramEdge{From: edge.From, To: edge.To})
	}
	if err := digest.ValidateDiagram(graph); err != nil {
		return digest.Diagram{}, err
	}
	return graph, nil
}

// nodeKind maps model vocabulary onto the digest node kinds. Models trained
// on older prompt revisions still answer core/phase/insight.
func nodeKind(value string) digest.NodeKind {
	switch value {
	case "root", "core":
		return digest.NodeRoot
	case "branch", "phase":
		return digest.NodeBranch
	case "leaf", "insight":
		return digest.NodeLeaf
	default:
		return digest.NodeLeaf
	}
}
