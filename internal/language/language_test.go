package language_test

import (
	"reflect"
	"testing"

	"videodigest/internal/language"
)

func TestToISO2(t *testing.T) {
	cases := map[string]string{
		"Chinese": "zh",
		"english": "en",
		"ja":      "ja",
		"zh-Hans": "zh",
		"KO":      "ko",
		"xx":      "xx",
		"klingon": "",
		"":        "",
	}
	for input, want := range cases {
		if got := language.ToISO2(input); got != want {
			t.Errorf("ToISO2(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := language.DisplayName("zh"); got != "Chinese" {
		t.Fatalf("DisplayName(zh) = %q", got)
	}
	if got := language.DisplayName(""); got != "Unknown" {
		t.Fatalf("DisplayName('') = %q", got)
	}
	if got := language.DisplayName("xyz"); got != "XYZ" {
		t.Fatalf("DisplayName(xyz) = %q", got)
	}
}

func TestIsTarget(t *testing.T) {
	for _, name := range []string{"Chinese", "English", "Japanese", "Korean", "zh", "en"} {
		if !language.IsTarget(name) {
			t.Errorf("expected %q to be a target language", name)
		}
	}
	for _, name := range []string{"Spanish", "fr", "klingon", ""} {
		if language.IsTarget(name) {
			t.Errorf("expected %q not to be a target language", name)
		}
	}
}

func TestSubtitlePriority(t *testing.T) {
	got := language.SubtitlePriority("Chinese")
	want := []string{"zh-Hans", "zh-Hant", "zh", "en"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SubtitlePriority(Chinese) = %v, want %v", got, want)
	}
	if got := language.SubtitlePriority("nonsense"); !reflect.DeepEqual(got, []string{"en"}) {
		t.Fatalf("unexpected fallback priority: %v", got)
	}
}

func TestNormalizeList(t *testing.T) {
	got := language.NormalizeList([]string{"English", "en", "", "Japanese", "ja"})
	want := []string{"en", "ja"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeList = %v, want %v", got, want)
	}
}
