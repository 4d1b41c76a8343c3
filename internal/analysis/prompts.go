package analysis

import (
	"fmt"
	"strings"
)

const summarySystemPrompt = `You are a video analyst. Given a video transcript (with timestamps) and optional key frame screenshots, produce a structured analysis in the requested JSON format.
Be concise and insightful. Preserve timestamps exactly as they appear in the transcript.
Always respond with valid JSON only - no markdown fences, no extra text.`

const timestampsSystemPrompt = `You are a video analyst. Identify key content-transition moments in a transcript.
Return only valid JSON - no markdown, no extra text.`

const diagramSystemPrompt = `You are a visual knowledge architect. Given a video title, overview, and chapter list, produce a node-edge graph structure for a hand-drawn style diagram.
Return only valid JSON - no markdown fences, no extra text.`

// strictRetrySuffix sharpens the instructions on the single re-prompt retry
// after malformed output.
const strictRetrySuffix = `

IMPORTANT: your previous response was structurally invalid. Respond with ONLY the JSON object described above. Every field must be present with the exact names and types given. Do not include markdown fences, commentary, or trailing text.`

func languageNote(language, what string) string {
	if strings.EqualFold(language, "english") || language == "" {
		return fmt.Sprintf("Write all %s in English.", what)
	}
	return fmt.Sprintf("Write ALL %s in %s.", what, language)
}

func buildSummaryPrompt(title, transcriptText, language string, strict bool) string {
	prompt := fmt.Sprintf(`Video title: %s

Transcript (format: [MM:SS] or [HH:MM:SS] followed by text):
%s

%s

Return a JSON object with EXACTLY this structure:
{
  "overview": "<1-2 sentences: the single core thesis or takeaway of this video - what it is about and why it matters. Do NOT list content sections or repeat chapter details.>",
  "chapters": [
    {
      "title": "<chapter title>",
      "timestamp": "<[MM:SS] from transcript>",
      "start_seconds": <number>,
      "summary": "<detailed paragraph of ~80-100 words: explain the specific arguments, examples, demonstrations, or data points covered in this segment. Include concrete details visible on screen if frames are provided. Do NOT repeat the overview or points already covered in other chapters.>"
    }
  ]
}

Requirements:
- overview: 1-2 sentences max. State the core thesis only - no section listing.
- chapters: 4-8 chapters at natural content transitions in chronological order, covering the video from start to finish. Each summary must be a rich paragraph (~80-100 words) with concrete, segment-specific detail. No cross-chapter repetition.
- ANTI-REPETITION: Overview = what+why (big picture only). Chapters = when + segment-specific detail. Never repeat the same sentence or point across fields.`,
		title, transcriptText, languageNote(language, "output fields"))
	if strict {
		prompt += strictRetrySuffix
	}
	return prompt
}

func buildTimestampsPrompt(title, transcriptText string, count int) string {
	return fmt.Sprintf(`Video title: %s

Transcript:
%s

Identify exactly %d key moments in this video where the content, topic, or visual context notably shifts.
Choose timestamps at natural transition points - beginnings of new arguments, demonstrations, or topic changes.

Return JSON:
{
  "key_moments": [
    {"seconds": <number>, "label": "<brief label>"}
  ]
}`, title, transcriptText, count)
}

func buildDiagramPrompt(title, overview string, chapterTitles []string, language string, strict bool) string {
	chapters := make([]string, 0, len(chapterTitles))
	for _, t := range chapterTitles {
		chapters = append(chapters, "- "+t)
	}
	prompt := fmt.Sprintf(`Video title: %s

Overview: %s

Chapters:
%s

%s

Create a knowledge graph for a hand-drawn diagram. Return a JSON object:
{
  "nodes": [
    {"id": "root", "label": "<core thesis in one memorable sentence, 8-12 words>", "type": "root"},
    {"id": "p1",   "label": "<Phase 1 heading, 3-5 words>", "type": "branch"},
    {"id": "p1a",  "label": "<specific insight with concrete detail, 10-15 words>", "type": "leaf"},
    {"id": "p1b",  "label": "<another specific insight from this phase, 10-15 words>", "type": "leaf"},
    {"id": "p2",   "label": "<Phase 2 heading, 3-5 words>", "type": "branch"},
    {"id": "p2a",  "label": "<key conclusion or evidence with detail, 10-15 words>", "type": "leaf"}
  ],
  "edges": [
    {"from": "root", "to": "p1"},
    {"from": "p1", "to": "p1a"},
    {"from": "p1", "to": "p1b"},
    {"from": "root", "to": "p2"},
    {"from": "p2", "to": "p2a"}
  ]
}

Rules:
- Exactly 1 root node (type "root"), 3-4 branch nodes, 2-3 leaf nodes per branch
- Every non-root node must be connected to the graph by exactly one incoming edge
- Each leaf label must be a complete thought (10-15 words) - NOT a vague topic label
- Labels must NOT contain double quotes, backslashes, or special JSON chars
- Keep all labels under 80 characters`,
		title, overview, strings.Join(chapters, "\n"), languageNote(language, "node labels"))
	if strict {
		prompt += strictRetrySuffix
	}
	return prompt
}
