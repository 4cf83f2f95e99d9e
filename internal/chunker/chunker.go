// Package chunker splits section bodies into the paragraph and sentence
// units that sub-section refinement scores.
package chunker

import (
	"strings"
	"unicode"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

// Config controls unit splitting.
type Config struct {
	MaxChars int // Paragraphs longer than this are split into sentence groups.
	MinChars int // Minimum unit size to emit.
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxChars: 500,
		MinChars: 20,
	}
}

// Unit is one scoreable piece of a section.
type Unit struct {
	Text  string
	Page  int
	Index int // position within the section
}

// Units splits a section's paragraphs into units. A paragraph that fits
// in MaxChars is one unit; a longer one becomes groups of whole sentences.
func Units(sec doctree.Section, cfg Config) []Unit {
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 500
	}
	if cfg.MinChars < 0 {
		cfg.MinChars = 0
	}

	var units []Unit
	emit := func(text string, page int) {
		text = strings.TrimSpace(text)
		if runeLen(text) < cfg.MinChars || text == "" {
			return
		}
		units = append(units, Unit{Text: text, Page: page, Index: len(units)})
	}

	for _, p := range sec.Paragraphs {
		for _, para := range splitByParagraphs(p.Text) {
			if runeLen(para) <= cfg.MaxChars {
				emit(para, p.Page)
				continue
			}
			for _, part := range splitBySentences(para, cfg.MaxChars) {
				emit(part, p.Page)
			}
		}
	}
	return units
}

// splitByParagraphs splits on double-newlines.
func splitByParagraphs(text string) []string {
	parts := strings.Split(text, "\n\n")
	var result []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// splitBySentences packs whole sentences into groups of at most maxChars.
// A single sentence longer than maxChars is its own group.
func splitBySentences(text string, maxChars int) []string {
	var result []string
	var current strings.Builder

	for _, sent := range splitSentences(text) {
		if current.Len() > 0 && runeLen(current.String())+1+runeLen(sent) > maxChars {
			result = append(result, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(sent)
	}
	if current.Len() > 0 {
		result = append(result, current.String())
	}
	return result
}

// splitSentences does basic sentence splitting on terminal punctuation
// followed by whitespace.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	runes := []rune(text)
	for i, r := range runes {
		current.WriteRune(r)
		if (r == '.' || r == '!' || r == '?') && i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Truncate shortens text to at most maxChars characters, cutting at the
// last whitespace so no word is split. Text that is a single word longer
// than maxChars truncates to "".
func Truncate(text string, maxChars int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	if maxChars <= 0 {
		return ""
	}
	// A cut right before whitespace keeps the last word whole.
	if unicode.IsSpace(runes[maxChars]) {
		return strings.TrimSpace(string(runes[:maxChars]))
	}
	for i := maxChars - 1; i > 0; i-- {
		if unicode.IsSpace(runes[i]) {
			return strings.TrimSpace(string(runes[:i]))
		}
	}
	return ""
}

func runeLen(s string) int {
	return len([]rune(s))
}
