package parser

import (
	"strings"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

// Formats without real typography (markdown, html, docx, text) are laid out
// on virtual Letter-sized pages so the outline pipeline sees the same kind
// of records a PDF produces.
const (
	virtualPageHeight = 792.0
	virtualMargin     = 72.0
	bodySize          = 10.0
	titleSize         = 28.0
)

var headingSizes = map[int]float64{1: 24, 2: 18, 3: 14, 4: 12, 5: 11, 6: 11}

// pageWriter places blocks top to bottom and breaks pages when full.
type pageWriter struct {
	page  int
	y     float64
	lines []doctree.RawLine
}

func newPageWriter() *pageWriter {
	return &pageWriter{page: 1, y: virtualMargin}
}

func (w *pageWriter) emit(text string, size float64, bold bool) {
	if w.y+size > virtualPageHeight-virtualMargin {
		w.page++
		w.y = virtualMargin
	}
	w.y += size * 1.2
	w.lines = append(w.lines, doctree.RawLine{
		Text:       text,
		FontSize:   size,
		Bold:       bold,
		Page:       w.page,
		X:          virtualMargin,
		Y:          w.y,
		PageHeight: virtualPageHeight,
	})
}

// title writes a document title line.
func (w *pageWriter) title(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	w.emit(text, titleSize, true)
	w.y += titleSize
}

// heading writes a heading of the given level (1-6).
func (w *pageWriter) heading(level int, text string) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return
	}
	size, ok := headingSizes[level]
	if !ok {
		size = bodySize
	}
	w.y += size
	w.emit(text, size, true)
}

// paragraph writes a body block, one record per source line, followed by a
// blank gap so paragraph boundaries survive.
func (w *pageWriter) paragraph(text string, bold bool) {
	wrote := false
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		w.emit(line, bodySize, bold)
		wrote = true
	}
	if wrote {
		w.y += bodySize * 1.5
	}
}
