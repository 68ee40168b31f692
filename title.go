package web2pdf

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// titleSelectors are tried in order when document.title is empty.
// #activity-name holds the headline of WeChat official-account articles.
var titleSelectors = []struct {
	selector string
	attr     string // empty = text content
}{
	{selector: `meta[property="og:title"]`, attr: "content"},
	{selector: `meta[name="twitter:title"]`, attr: "content"},
	{selector: "#activity-name"},
	{selector: "h1"},
}

// titleFromHTML extracts a fallback title from rendered HTML.
// Returns "" if nothing usable is found.
func titleFromHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	for _, ts := range titleSelectors {
		sel := doc.Find(ts.selector).First()
		var value string
		if ts.attr != "" {
			value, _ = sel.Attr(ts.attr)
		} else {
			value = sel.Text()
		}
		if value = strings.Join(strings.Fields(value), " "); value != "" {
			return value
		}
	}
	return ""
}
