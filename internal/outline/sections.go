package outline

import (
	"strings"
	"unicode"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

// paragraphGap is the vertical gap, in multiples of the line's font size,
// that starts a new paragraph.
const paragraphGap = 1.8

// BuildSections splits a document into sections. Each heading owns the
// lines up to the next heading of equal or shallower level. Text before the
// first heading belongs to no section. A document without headings yields
// one section per page, titled by the page's first line.
func BuildSections(docID string, docIndex int, res Result) []doctree.Section {
	if len(res.Headings) == 0 {
		return pageSections(docID, docIndex, res)
	}

	var out []doctree.Section
	for i, h := range res.Headings {
		end := len(res.Lines)
		for _, next := range res.Headings[i+1:] {
			if next.Entry.Level <= h.Entry.Level {
				end = next.Line
				break
			}
		}
		sec := doctree.Section{
			DocID:     docID,
			DocIndex:  docIndex,
			Order:     len(out),
			Title:     h.Entry,
			PageStart: h.Entry.Page,
			PageEnd:   h.Entry.Page,
		}
		body := make([]int, 0, end-h.Line)
		for j := h.Line + 1; j < end; j++ {
			if !res.Skip[j] {
				body = append(body, j)
			}
		}
		sec.Paragraphs = paragraphs(res.Lines, body)
		if n := len(body); n > 0 {
			sec.PageEnd = max(sec.PageEnd, res.Lines[body[n-1]].Page)
		}
		out = append(out, sec)
	}
	return out
}

func pageSections(docID string, docIndex int, res Result) []doctree.Section {
	byPage := make(map[int][]int)
	var pages []int
	for i, l := range res.Lines {
		if res.Skip[i] {
			continue
		}
		if _, ok := byPage[l.Page]; !ok {
			pages = append(pages, l.Page)
		}
		byPage[l.Page] = append(byPage[l.Page], i)
	}

	out := make([]doctree.Section, 0, len(pages))
	for _, p := range pages {
		idx := byPage[p]
		head := res.Lines[idx[0]]
		out = append(out, doctree.Section{
			DocID:      docID,
			DocIndex:   docIndex,
			Order:      len(out),
			Title:      doctree.OutlineEntry{Level: doctree.H1, Text: CleanHeadingText(head.Text), Page: p},
			PageStart:  p,
			PageEnd:    p,
			Paragraphs: paragraphs(res.Lines, idx[1:]),
		})
	}
	return out
}

// paragraphs groups the given lines into paragraphs. A page change, a
// vertical gap wider than paragraphGap line heights, or a jump back up the
// page (next column) ends a paragraph.
func paragraphs(lines []doctree.Line, idx []int) []doctree.Paragraph {
	var out []doctree.Paragraph
	var buf strings.Builder
	var prev *doctree.Line
	page := 0

	flush := func() {
		if t := strings.TrimSpace(buf.String()); t != "" {
			out = append(out, doctree.Paragraph{Text: t, Page: page})
		}
		buf.Reset()
	}

	for _, i := range idx {
		l := lines[i]
		if prev != nil {
			gap := l.Y - prev.Y
			if l.Page != prev.Page || gap < 0 || gap > prev.FontSize*paragraphGap {
				flush()
			}
		}
		if buf.Len() == 0 {
			page = l.Page
			buf.WriteString(l.Text)
		} else {
			joinLine(&buf, l.Text)
		}
		prev = &lines[i]
	}
	flush()
	return out
}

// joinLine appends next to a paragraph, rejoining words hyphenated across
// the line break.
func joinLine(buf *strings.Builder, next string) {
	cur := buf.String()
	r := []rune(cur)
	nr := []rune(next)
	if len(r) >= 2 && r[len(r)-1] == '-' && unicode.IsLetter(r[len(r)-2]) &&
		len(nr) > 0 && unicode.IsLower(nr[0]) {
		buf.Reset()
		buf.WriteString(string(r[:len(r)-1]))
		buf.WriteString(next)
		return
	}
	buf.WriteByte(' ')
	buf.WriteString(next)
}
