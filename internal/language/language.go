package language

import "strings"

type entry struct {
	code2     string   // ISO 639-1 (2-letter)
	display   string   // Human-readable name
	words     []string // Full word forms (e.g. "english")
	subtitles []string // Subtitle track codes in preference order
	target    bool     // Supported digest output language
}

var languages = []entry{
	{"zh", "Chinese", []string{"chinese"}, []string{"zh-Hans", "zh-Hant", "zh", "en"}, true},
	{"en", "English", []string{"english"}, []string{"en", "en-US", "en-GB"}, true},
	{"ja", "Japanese", []string{"japanese"}, []string{"ja", "en"}, true},
	{"ko", "Korean", []string{"korean"}, []string{"ko", "en"}, true},
	{"es", "Spanish", []string{"spanish"}, nil, false},
	{"fr", "French", []string{"french"}, nil, false},
	{"de", "German", []string{"german"}, nil, false},
	{"pt", "Portuguese", []string{"portuguese"}, nil, false},
	{"ru", "Russian", []string{"russian"}, nil, false},
}

var (
	byCode2 map[string]*entry
	byWord  map[string]*entry
)

func init() {
	byCode2 = make(map[string]*entry, len(languages))
	byWord = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byCode2[e.code2] = e
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode2[code]; ok {
		return e
	}
	if e, ok := byWord[code]; ok {
		return e
	}
	// Regional subtitle codes such as zh-Hans resolve through their base code.
	if idx := strings.IndexByte(code, '-'); idx > 0 {
		if e, ok := byCode2[code[:idx]]; ok {
			return e
		}
	}
	return nil
}

// ToISO2 converts any recognized language name or code to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input. If the input is already a
// 2-letter code (even if unknown), it passes through.
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if e := lookup(code); e != nil {
		return e.code2
	}
	if len(code) == 2 {
		return code
	}
	return ""
}

// DisplayName returns a human-readable language name for any recognized code.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsTarget reports whether the supplied name or code is a supported digest
// output language.
func IsTarget(name string) bool {
	e := lookup(name)
	return e != nil && e.target
}

// Targets returns the display names of supported digest output languages.
func Targets() []string {
	out := make([]string, 0, 4)
	for i := range languages {
		if languages[i].target {
			out = append(out, languages[i].display)
		}
	}
	return out
}

// SubtitlePriority returns the subtitle track codes to try, in order, for the
// supplied digest output language. Unrecognized input falls back to English.
func SubtitlePriority(name string) []string {
	if e := lookup(name); e != nil && len(e.subtitles) > 0 {
		return append([]string{}, e.subtitles...)
	}
	return []string{"en"}
}

// NormalizeList deduplicates and normalizes a list of language codes to ISO 639-1.
func NormalizeList(codes []string) []string {
	if len(codes) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, lang := range codes {
		trimmed := strings.ToLower(strings.TrimSpace(lang))
		if trimmed == "" {
			continue
		}
		if len(trimmed) > 2 {
			if mapped := ToISO2(trimmed); mapped != "" {
				trimmed = mapped
			}
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		normalized = append(normalized, trimmed)
	}
	return normalized
}
