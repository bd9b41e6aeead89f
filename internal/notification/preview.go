package notification

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const previewLimit = 140

// Preview reduces a plain-text notification message to a single line of at
// most previewLimit runes. The message is never parsed as markup.
func Preview(message string) string {
	return truncate(strings.Join(strings.Fields(message), " "))
}

// PreviewHTML is Preview for messages that carry HTML markup: only the text
// content survives, scripts and styles are dropped
func PreviewHTML(message string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(message))
	if err != nil {
		return Preview(message)
	}
	var parts []string
	collectText(doc.Find("body"), &parts)
	return Preview(strings.Join(parts, " "))
}

func truncate(text string) string {
	if utf8.RuneCountInString(text) <= previewLimit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:previewLimit-1])) + "…"
}

func collectText(s *goquery.Selection, parts *[]string) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		switch goquery.NodeName(c) {
		case "#text":
			*parts = append(*parts, c.Text())
		case "script", "style", "#comment":
		default:
			collectText(c, parts)
		}
	})
}
