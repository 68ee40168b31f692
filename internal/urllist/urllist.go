// Package urllist reads the URL list that drives a conversion batch.
//
// Two formats are accepted:
//   - plain text: one URL per line, blank lines and "#" comments skipped
//   - Markdown (.md, .markdown): every http(s) link in document order,
//     whether inline, reference-style, autolinked or bare
package urllist

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-web2pdf/internal/fileutil"
)

// maxLineLength bounds a single line of a plain list (1MB).
const maxLineLength = 1 << 20

// Read loads the URL list at path, picking the format from its extension.
// A missing file is reported with an error wrapping os.ErrNotExist.
func Read(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided input list
	if err != nil {
		return nil, fmt.Errorf("reading URL list: %w", err)
	}

	if IsMarkdown(path) {
		return ParseMarkdown(data), nil
	}
	return ParsePlain(bytes.NewReader(data))
}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// ParsePlain returns the trimmed non-blank, non-comment lines of r in order.
func ParsePlain(r io.Reader) ([]string, error) {
	var urls []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning URL list: %w", err)
	}
	return urls, nil
}

// ParseMarkdown returns the http(s) link destinations of a Markdown
// document in the order they appear.
func ParseMarkdown(src []byte) []string {
	md := goldmark.New(goldmark.WithExtensions(extension.Linkify))
	doc := md.Parser().Parse(text.NewReader(src))

	var urls []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		var dest string
		switch node := n.(type) {
		case *ast.Link:
			dest = string(node.Destination)
		case *ast.AutoLink:
			dest = string(node.URL(src))
		default:
			return ast.WalkContinue, nil
		}

		dest = strings.TrimSpace(dest)
		if fileutil.IsURL(dest) {
			urls = append(urls, dest)
		}
		// Link text can itself contain an autolink; count the link once.
		return ast.WalkSkipChildren, nil
	})

	return urls
}
