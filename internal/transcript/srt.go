package transcript

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	cueTimePattern = regexp.MustCompile(`(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})\s*-->\s*(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})`)
	inlineTag      = regexp.MustCompile(`<[^>]+>`)
)

// ParseSRTFile reads and parses an SRT (or SRT-like VTT) subtitle file.
func ParseSRTFile(path string) ([]Segment, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open subtitle file: %w", err)
	}
	defer file.Close()
	return ParseSRT(file)
}

// ParseSRT parses SRT cue blocks from the reader. It tolerates VTT-style
// dot millisecond separators, cue index lines, inline markup tags, and a
// leading byte order mark. Cues with empty text are dropped.
func ParseSRT(r io.Reader) ([]Segment, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var segments []Segment
	var current *Segment
	var textLines []string

	flush := func() {
		if current == nil {
			return
		}
		text := strings.TrimSpace(inlineTag.ReplaceAllString(strings.Join(textLines, " "), ""))
		if text != "" {
			current.Text = text
			segments = append(segments, *current)
		}
		current = nil
		textLines = nil
	}

	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}
		if current == nil && (strings.HasPrefix(trimmed, "WEBVTT") || strings.HasPrefix(trimmed, "NOTE")) {
			continue
		}
		if match := cueTimePattern.FindStringSubmatch(trimmed); match != nil {
			flush()
			current = &Segment{
				Start: cueSeconds(match[1], match[2], match[3], match[4]),
				End:   cueSeconds(match[5], match[6], match[7], match[8]),
			}
			continue
		}
		if current == nil {
			// Cue index or stray header line.
			continue
		}
		if _, err := strconv.Atoi(trimmed); err == nil && len(textLines) == 0 {
			continue
		}
		textLines = append(textLines, trimmed)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read subtitle data: %w", err)
	}
	flush()
	return segments, nil
}

func cueSeconds(hours, minutes, seconds, millis string) float64 {
	h, _ := strconv.Atoi(hours)
	m, _ := strconv.Atoi(minutes)
	s, _ := strconv.Atoi(seconds)
	// Pad short fractions: "5" means 500ms in VTT shorthand.
	for len(millis) < 3 {
		millis += "0"
	}
	ms, _ := strconv.Atoi(millis)
	return float64(h)*3600 + float64(m)*60 + float64(s) + float64(ms)/1000
}
