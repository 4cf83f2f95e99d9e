// Package layout turns raw layout records into ordered lines and derives the
// document-wide typography statistics the outline stages rely on.
package layout

import (
	"errors"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

// ErrEmptyDocument is returned when a document yields no text lines.
var ErrEmptyDocument = errors.New("empty document: no extractable lines")

// Config controls fragment merging.
type Config struct {
	YTolerance    float64 // max baseline difference for fragments of one line
	SizeTolerance float64 // max font size difference for fragments of one line
}

// DefaultConfig returns the merge tolerances used by the pipeline.
func DefaultConfig() Config {
	return Config{
		YTolerance:    2.0,
		SizeTolerance: 0.5,
	}
}

// Normalize merges contiguous fragments that share a page, a baseline and a
// font size into lines. Record order is preserved; nothing is re-sorted.
func Normalize(raw []doctree.RawLine, cfg Config) ([]doctree.Line, error) {
	if cfg.YTolerance <= 0 {
		cfg.YTolerance = 2.0
	}
	if cfg.SizeTolerance <= 0 {
		cfg.SizeTolerance = 0.5
	}

	var lines []doctree.Line
	var acc *accumulator

	for _, r := range raw {
		text := cleanText(r.Text)
		if text == "" {
			continue
		}
		if acc != nil && acc.accepts(r, cfg) {
			acc.add(r, text)
			continue
		}
		if acc != nil {
			lines = append(lines, acc.line())
		}
		acc = newAccumulator(r, text)
	}
	if acc != nil {
		lines = append(lines, acc.line())
	}

	if len(lines) == 0 {
		return nil, ErrEmptyDocument
	}
	return lines, nil
}

// cleanText folds compatibility characters (ligatures, full-width forms)
// and collapses whitespace.
func cleanText(s string) string {
	s = norm.NFKC.String(s)
	return strings.Join(strings.Fields(s), " ")
}

type accumulator struct {
	first     doctree.RawLine
	text      strings.Builder
	xEnd      float64
	minX      float64
	sizeSum   float64 // char-weighted
	boldChars int
	chars     int
}

func newAccumulator(r doctree.RawLine, text string) *accumulator {
	a := &accumulator{first: r, minX: r.X}
	a.add(r, text)
	return a
}

func (a *accumulator) accepts(r doctree.RawLine, cfg Config) bool {
	return r.Page == a.first.Page &&
		math.Abs(r.Y-a.first.Y) <= cfg.YTolerance &&
		math.Abs(r.FontSize-a.first.FontSize) <= cfg.SizeTolerance
}

func (a *accumulator) add(r doctree.RawLine, text string) {
	if a.text.Len() > 0 {
		// Fragments that touch horizontally are parts of one word.
		touching := a.xEnd > 0 && r.X > 0 && r.X-a.xEnd < r.FontSize*0.1
		if !touching {
			a.text.WriteByte(' ')
		}
	}
	a.text.WriteString(text)
	if r.XEnd > 0 {
		a.xEnd = r.XEnd
	} else {
		a.xEnd = 0
	}
	if r.X < a.minX {
		a.minX = r.X
	}
	n := len([]rune(text))
	a.chars += n
	a.sizeSum += r.FontSize * float64(n)
	if r.Bold {
		a.boldChars += n
	}
}

func (a *accumulator) line() doctree.Line {
	size := a.first.FontSize
	if a.chars > 0 {
		size = a.sizeSum / float64(a.chars)
	}
	return doctree.Line{
		Text:       a.text.String(),
		FontSize:   doctree.RoundSize(size),
		Bold:       a.boldChars*2 > a.chars,
		Page:       a.first.Page,
		X:          a.minX,
		Y:          a.first.Y,
		PageHeight: a.first.PageHeight,
	}
}
