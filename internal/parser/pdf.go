package parser

import (
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

const defaultPageHeight = 792.0

// PDFParser handles PDF files. It reads positioned glyph runs through the Go
// library and falls back to pdftotext (no typography) when that fails.
type PDFParser struct {
	FallbackPdftotext bool
}

func (p *PDFParser) Parse(r io.Reader, filename string) ([]doctree.RawLine, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "docintel-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	lines, err := extractPDFLines(tmpPath)
	if (err != nil || len(lines) == 0) && p.FallbackPdftotext {
		if text, ferr := extractPdftotext(tmpPath); ferr == nil {
			return plainTextLines(text), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}
	return lines, nil
}

func extractPDFLines(path string) (lines []doctree.RawLine, err error) {
	// The library panics on some malformed content streams.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("pdf content: %v", rec)
		}
	}()

	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		height := pageHeight(page)
		lines = append(lines, groupGlyphs(page.Content().Text, i, height)...)
	}
	return lines, nil
}

// pageHeight reads the MediaBox, walking up the page tree for inherited boxes.
func pageHeight(page pdflib.Page) float64 {
	for v := page.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() != pdflib.Array || box.Len() < 4 {
			continue
		}
		if h := box.Index(3).Float64() - box.Index(1).Float64(); h > 0 {
			return h
		}
	}
	return defaultPageHeight
}

// groupGlyphs joins consecutive glyphs sharing font, size and baseline into
// fragments. Word gaps become spaces; a large horizontal jump (another column
// or a table cell) starts a new fragment.
func groupGlyphs(glyphs []pdflib.Text, page int, height float64) []doctree.RawLine {
	var out []doctree.RawLine
	var cur *doctree.RawLine
	var text strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = strings.TrimSpace(text.String())
		if cur.Text != "" {
			out = append(out, *cur)
		}
		cur = nil
		text.Reset()
	}

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		y := height - g.Y
		if cur != nil {
			gap := g.X - cur.XEnd
			sameRun := g.Font == cur.FontName &&
				math.Abs(g.FontSize-cur.FontSize) < 0.01 &&
				math.Abs(y-cur.Y) < 0.5 &&
				gap > -g.FontSize && gap < g.FontSize*2
			if !sameRun {
				flush()
			} else if gap > g.FontSize*0.2 && !strings.HasSuffix(text.String(), " ") {
				text.WriteByte(' ')
			}
		}
		if cur == nil {
			cur = &doctree.RawLine{
				FontSize:   g.FontSize,
				FontName:   g.Font,
				Bold:       isBoldFont(g.Font),
				Page:       page,
				X:          g.X,
				Y:          y,
				PageHeight: height,
			}
		}
		text.WriteString(g.S)
		cur.XEnd = g.X + g.W
	}
	flush()
	return out
}

func isBoldFont(name string) bool {
	n := strings.ToLower(name)
	for _, marker := range []string{"bold", "black", "heavy", "semibold", "demibold"} {
		if strings.Contains(n, marker) {
			return true
		}
	}
	return false
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// plainTextLines turns pdftotext output into uniform body-size records,
// one page per form feed.
func plainTextLines(text string) []doctree.RawLine {
	var lines []doctree.RawLine
	for i, page := range strings.Split(text, "\f") {
		y := virtualMargin
		for _, line := range strings.Split(page, "\n") {
			y += bodySize * 1.2
			if t := strings.Join(strings.Fields(line), " "); t != "" {
				lines = append(lines, doctree.RawLine{
					Text:       t,
					FontSize:   bodySize,
					Page:       i + 1,
					X:          virtualMargin,
					Y:          y,
					PageHeight: defaultPageHeight,
				})
			}
		}
	}
	return lines
}
