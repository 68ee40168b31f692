package web2pdf

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// TestSanitizeTitle - File-name-safe titles
// ---------------------------------------------------------------------------

func TestSanitizeTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "plain title kept", title: "Hello World", want: "Hello World"},
		{name: "every illegal character removed", title: `A/B:C?.pdf"<title>`, want: "ABC.pdftitle"},
		{name: "backslash star and pipe removed", title: `a\b*c|d`, want: "abcd"},
		{name: "control characters removed", title: "line\nbreak\ttab", want: "linebreaktab"},
		{name: "surrounding spaces trimmed", title: "  spaced  ", want: "spaced"},
		{name: "truncated to 50 runes", title: strings.Repeat("a", 60), want: strings.Repeat("a", 50)},
		{name: "multibyte truncated by rune", title: strings.Repeat("文", 60), want: strings.Repeat("文", 50)},
		{name: "only illegal characters", title: `***???`, want: ""},
		{name: "empty", title: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizeTitle(tt.title); got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSanitizeTitle_Properties(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`A/B:C?.pdf"<title>`,
		strings.Repeat(`x/`, 80),
		"微信公众号文章：如何写出好代码？",
		strings.Repeat("é", 49) + `"|<>`,
	}

	for _, in := range inputs {
		got := SanitizeTitle(in)
		if strings.ContainsAny(got, illegalTitleChars) {
			t.Errorf("SanitizeTitle(%q) = %q contains an illegal character", in, got)
		}
		if n := utf8.RuneCountInString(got); n > MaxTitleRunes {
			t.Errorf("SanitizeTitle(%q) has %d runes, max %d", in, n, MaxTitleRunes)
		}
	}
}

// ---------------------------------------------------------------------------
// TestOutputFileName - Title to file name
// ---------------------------------------------------------------------------

func TestOutputFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title string
		want  string
	}{
		{title: "Go 1.25 Release Notes", want: "Go 1.25 Release Notes.pdf"},
		{title: "What? Why: How", want: "What Why How.pdf"},
		{title: "", want: "untitled.pdf"},
		{title: "???", want: "untitled.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()

			if got := OutputFileName(tt.title); got != tt.want {
				t.Errorf("OutputFileName(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
