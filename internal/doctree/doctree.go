package doctree

import (
	"fmt"
	"math"
	"strings"
)

// RawLine is one text record as produced by a layout source (PDF glyph run,
// markdown block, ...). Coordinates are top-down: Y grows towards the page bottom.
type RawLine struct {
	Text       string
	FontSize   float64
	FontName   string
	Bold       bool
	Page       int     // 1-based
	X          float64 // left edge
	XEnd       float64 // right edge (0 if unknown)
	Y          float64 // baseline, top-down
	PageHeight float64 // 0 if unknown
}

// Line is a normalized line of text. Lines are never modified after the
// layout normalizer produces them.
type Line struct {
	Text       string
	FontSize   float64 // rounded to 0.1pt
	Bold       bool
	Page       int
	X          float64
	Y          float64
	PageHeight float64
}

// WordCount returns the number of whitespace separated words.
func (l Line) WordCount() int {
	return len(strings.Fields(l.Text))
}

// RoundSize rounds a font size to 0.1pt so float noise from the PDF
// text matrix does not produce spurious distinct sizes.
func RoundSize(size float64) float64 {
	return math.Round(size*10) / 10
}

// Level is a heading level, H1 (shallowest) to H4 (deepest).
type Level int

const (
	LevelNone Level = iota
	H1
	H2
	H3
	H4
)

// MaxLevel is the deepest level an outline can carry.
const MaxLevel = H4

func (l Level) String() string {
	if l >= H1 && l <= H4 {
		return fmt.Sprintf("H%d", int(l))
	}
	return "none"
}

// MarshalText renders the level as "H1".."H4".
func (l Level) MarshalText() ([]byte, error) {
	if l < H1 || l > H4 {
		return nil, fmt.Errorf("invalid heading level %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText parses "H1".."H4".
func (l *Level) UnmarshalText(b []byte) error {
	s := strings.ToUpper(strings.TrimSpace(string(b)))
	if len(s) == 2 && s[0] == 'H' && s[1] >= '1' && s[1] <= '4' {
		*l = Level(s[1] - '0')
		return nil
	}
	return fmt.Errorf("invalid heading level %q", string(b))
}

// OutlineEntry is one heading of a document outline.
type OutlineEntry struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"`
}

// DocTree is the outline payload of one document.
type DocTree struct {
	Title   string         `json:"title"`
	Outline []OutlineEntry `json:"outline"`
}

// Paragraph is a contiguous block of body text on one page.
type Paragraph struct {
	Text string
	Page int
}

// Section is the span of a document from one heading to the next heading
// of equal or shallower level.
type Section struct {
	DocID      string
	DocIndex   int // position of the document in the collection
	Order      int // position of the section within its document
	Title      OutlineEntry
	PageStart  int
	PageEnd    int
	Paragraphs []Paragraph
}

// Body joins the section paragraphs with blank lines.
func (s Section) Body() string {
	parts := make([]string, 0, len(s.Paragraphs))
	for _, p := range s.Paragraphs {
		if p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Text is the heading followed by the body.
func (s Section) Text() string {
	body := s.Body()
	if body == "" {
		return s.Title.Text
	}
	return s.Title.Text + "\n\n" + body
}
