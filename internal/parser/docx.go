package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

// DOCXParser handles .docx files. Heading styles map to heading sizes and
// paragraphs made only of bold runs keep their weight.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) ([]doctree.RawLine, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "docintel-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	w := newPageWriter()
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text, bold := docxParagraphText(para)
		if text == "" {
			continue
		}
		switch level := docxHeadingLevel(para); {
		case level < 0:
			w.title(text)
		case level > 0:
			w.heading(level, text)
		default:
			w.paragraph(text, bold)
		}
	}
	return w.lines, nil
}

// docxHeadingLevel returns 1-6 for heading styles, -1 for the Title style
// and 0 for everything else.
func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	if style == "title" {
		return -1
	}
	if strings.HasPrefix(style, "heading") && len(style) == len("heading")+1 {
		if d := style[len(style)-1]; d >= '1' && d <= '6' {
			return int(d - '0')
		}
	}
	return 0
}

// docxParagraphText returns the paragraph text and whether every run with
// text is bold.
func docxParagraphText(para *docx.Paragraph) (string, bool) {
	var buf strings.Builder
	bold := true
	sawText := false
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			t, ok := rc.(*docx.Text)
			if !ok {
				continue
			}
			buf.WriteString(t.Text)
			if strings.TrimSpace(t.Text) == "" {
				continue
			}
			sawText = true
			if run.RunProperties == nil || run.RunProperties.Bold == nil {
				bold = false
			}
		}
	}
	return strings.TrimSpace(buf.String()), sawText && bold
}
