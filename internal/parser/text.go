package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

// TextParser handles plain text files. Every line is body text; blank lines
// separate paragraphs and form feeds start a new page.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) ([]doctree.RawLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	w := newPageWriter()
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			w.paragraph(current.String(), false)
			current.Reset()
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		for strings.Contains(line, "\f") {
			before, after, _ := strings.Cut(line, "\f")
			if strings.TrimSpace(before) != "" {
				appendLine(&current, before)
			}
			flush()
			w.page++
			w.y = virtualMargin
			line = after
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		appendLine(&current, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return w.lines, nil
}

func appendLine(b *strings.Builder, line string) {
	if b.Len() > 0 {
		b.WriteString("\n")
	}
	b.WriteString(line)
}
