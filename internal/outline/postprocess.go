package outline

import (
	"math"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

const (
	noiseBands        = 20
	defaultPageHeight = 792.0
)

// RunningNoise returns the indices of lines that repeat at the same relative
// vertical band on more than half of the document's pages (running headers
// and footers). Single-page documents have no running noise.
func RunningNoise(lines []doctree.Line) map[int]bool {
	pages := 0
	for _, l := range lines {
		if l.Page > pages {
			pages = l.Page
		}
	}
	noise := make(map[int]bool)
	if pages < 2 {
		return noise
	}

	type key struct {
		text string
		band int
	}
	onPages := make(map[key]map[int]bool)
	keys := make([]key, len(lines))
	for i, l := range lines {
		k := key{l.Text, band(l)}
		keys[i] = k
		if onPages[k] == nil {
			onPages[k] = make(map[int]bool)
		}
		onPages[k][l.Page] = true
	}
	for i, k := range keys {
		n := len(onPages[k])
		if n >= 2 && n*2 > pages {
			noise[i] = true
		}
	}
	return noise
}

func band(l doctree.Line) int {
	h := l.PageHeight
	if h <= 0 {
		h = defaultPageHeight
	}
	b := int(math.Floor(l.Y / h * noiseBands))
	return min(max(b, 0), noiseBands-1)
}

// Heading is a classified heading with its source line.
type Heading struct {
	Line  int
	Entry doctree.OutlineEntry
	Score float64
}

// Dedupe collapses consecutive headings with identical text and page,
// keeping the stronger one.
func Dedupe(hs []Heading) []Heading {
	out := make([]Heading, 0, len(hs))
	for _, h := range hs {
		if n := len(out); n > 0 {
			last := out[n-1]
			if last.Entry.Text == h.Entry.Text && last.Entry.Page == h.Entry.Page {
				if h.Score > last.Score {
					out[n-1] = h
				}
				continue
			}
		}
		out = append(out, h)
	}
	return out
}

// RepairSequence demotes any heading that is more than one level deeper
// than the deepest level seen so far. The deepest level only grows.
func RepairSequence(hs []Heading) []Heading {
	var maxDepthSeen doctree.Level
	for i := range hs {
		if hs[i].Entry.Level > maxDepthSeen+1 {
			hs[i].Entry.Level = maxDepthSeen + 1
		}
		maxDepthSeen = max(maxDepthSeen, hs[i].Entry.Level)
	}
	return hs
}
