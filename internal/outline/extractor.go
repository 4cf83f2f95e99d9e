// Package outline recovers a document's title and H1-H4 heading outline from
// layout signals and splits the document into heading-bounded sections.
package outline

import (
	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
	"github.com/tanisha290/adobe-teamkt-1b/internal/layout"
)

// Result is the outline of one document together with the line-level
// detail section building needs.
type Result struct {
	Tree     doctree.DocTree
	Headings []Heading
	Lines    []doctree.Line
	// Skip marks title lines and running headers/footers; they belong to
	// no section body.
	Skip       map[int]bool
	BodySize   float64
	Degenerate bool
	Clustered  bool
}

// Empty is the result for a document without extractable lines.
func Empty(docName string) Result {
	return Result{
		Tree: doctree.DocTree{Title: FallbackTitle(docName), Outline: []doctree.OutlineEntry{}},
		Skip: map[int]bool{},
	}
}

// Extract runs title resolution, candidate detection, noise removal,
// classification, dedupe and sequence repair over normalized lines.
func Extract(lines []doctree.Line, docName string) Result {
	if len(lines) == 0 {
		return Empty(docName)
	}

	body := layout.BodySize(lines)
	title, titleLines := ResolveTitle(lines, body, docName)

	skip := RunningNoise(lines)
	for _, i := range titleLines {
		skip[i] = true
	}

	cands := Detect(lines, body, layout.PageMargins(lines, body), skip)
	cls := Classify(cands)
	cands, levels := dropOverlaps(cands, cls.Levels)

	hs := make([]Heading, len(cands))
	for i, c := range cands {
		hs[i] = Heading{
			Line:  c.Line,
			Entry: doctree.OutlineEntry{Level: levels[i], Text: c.Text, Page: c.Page},
			Score: c.Score(),
		}
	}
	hs = RepairSequence(Dedupe(hs))

	entries := make([]doctree.OutlineEntry, len(hs))
	for i, h := range hs {
		entries[i] = h.Entry
	}

	return Result{
		Tree:       doctree.DocTree{Title: title, Outline: entries},
		Headings:   hs,
		Lines:      lines,
		Skip:       skip,
		BodySize:   body,
		Degenerate: cls.Degenerate,
		Clustered:  cls.Clustered,
	}
}
