// Package ner tokenizes publication abstracts into sentences and optionally
// tags them with recognized scientific terms. It is a side output of the
// harvest; nothing in claim extraction or identity resolution depends on it.
package ner

import (
	"strings"

	"golang.org/x/net/html"
)

const (
	minSentenceLen = 20
	maxSentenceLen = 1000
)

// StripHTML extracts the visible text from an HTML fragment, skipping
// script/style content. Warehouse abstracts arrive as HTML strings.
func StripHTML(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if buf.Len() > 0 {
					buf.WriteString(" ")
				}
				buf.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return buf.String()
}

// SplitSentences splits text into sentences with a simple terminator
// heuristic, dropping fragments too short or too long to be useful for term
// tagging.
func SplitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		sentence := strings.TrimSpace(current.String())
		if len(sentence) >= minSentenceLen && len(sentence) <= maxSentenceLen {
			sentences = append(sentences, sentence)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			// Look ahead to avoid splitting on abbreviations.
			if i+1 < len(text) && (text[i+1] == ' ' || text[i+1] == '\t') {
				flush()
			}
		}
	}
	if current.Len() > 0 {
		flush()
	}

	return sentences
}
