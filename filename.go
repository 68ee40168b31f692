package web2pdf

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

const (
	// MaxTitleRunes caps the file name derived from a page title.
	MaxTitleRunes = 50

	// fallbackTitle names pages whose title sanitizes to nothing.
	fallbackTitle = "untitled"

	// illegalTitleChars cannot appear in file names on common filesystems.
	illegalTitleChars = `\/*?:"<>|`
)

// SanitizeTitle turns a page title into a file name stem: illegal path
// characters and control characters are removed, surrounding spaces are
// trimmed, and the result is cut to MaxTitleRunes runes.
// Returns "" when nothing is left.
func SanitizeTitle(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalTitleChars, r) || unicode.IsControl(r) {
			return -1
		}
		return r
	}, title)
	cleaned = strings.TrimSpace(cleaned)

	if utf8.RuneCountInString(cleaned) > MaxTitleRunes {
		cleaned = strings.TrimSpace(string([]rune(cleaned)[:MaxTitleRunes]))
	}
	return cleaned
}

// OutputFileName returns "{sanitized title}.pdf", or "untitled.pdf".
func OutputFileName(title string) string {
	stem := SanitizeTitle(title)
	if stem == "" {
		stem = fallbackTitle
	}
	return stem + fileutil.PDFExtension
}
