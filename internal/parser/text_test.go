package parser

import (
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n\nThird paragraph."
	p := &TextParser{}
	lines, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"First paragraph line one.",
		"First paragraph line two.",
		"Second paragraph.",
		"Third paragraph.",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d", len(want), len(lines))
	}
	for i, w := range want {
		if lines[i].Text != w {
			t.Errorf("line[%d]: expected %q, got %q", i, w, lines[i].Text)
		}
		if lines[i].FontSize != bodySize || lines[i].Bold {
			t.Errorf("line[%d]: expected plain body text, got size %v bold %v", i, lines[i].FontSize, lines[i].Bold)
		}
		if lines[i].Page != 1 {
			t.Errorf("line[%d]: expected page 1, got %d", i, lines[i].Page)
		}
	}

	// Lines of one paragraph sit closer together than paragraphs do.
	inner := lines[1].Y - lines[0].Y
	between := lines[2].Y - lines[1].Y
	if between <= inner {
		t.Errorf("expected paragraph gap %v to exceed line gap %v", between, inner)
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	lines, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("expected 0 lines for empty input, got %d", len(lines))
	}
}

func TestTextParser_FormFeedStartsPage(t *testing.T) {
	p := &TextParser{}
	lines, err := p.Parse(strings.NewReader("Page one text\fPage two text\n\fPage three"), "pages.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, want := range []int{1, 2, 3} {
		if lines[i].Page != want {
			t.Errorf("line[%d]: expected page %d, got %d", i, want, lines[i].Page)
		}
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace should be treated as blank.
	input := "Para one.\n   \n\n\nPara two."
	p := &TextParser{}
	lines, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}

func TestTextParser_LongDocumentBreaksPages(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("A line of body text.\n")
	}
	p := &TextParser{}
	lines, err := p.Parse(strings.NewReader(b.String()), "long.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := lines[len(lines)-1]
	if last.Page < 2 {
		t.Errorf("expected overflow onto later pages, last page %d", last.Page)
	}
	for _, l := range lines {
		if l.Y > virtualPageHeight {
			t.Fatalf("line %q placed below the page: y=%v", l.Text, l.Y)
		}
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"a.txt", "*parser.TextParser", false},
		{"b.MD", "*parser.MarkdownParser", false},
		{"c.markdown", "*parser.MarkdownParser", false},
		{"d.htm", "*parser.HTMLParser", false},
		{"e.pdf", "*parser.PDFParser", false},
		{"f.docx", "*parser.DOCXParser", false},
		{"g.csv", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.name, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil {
			if got := typeName(p); got != tt.want {
				t.Errorf("ForFile(%q) = %s, want %s", tt.name, got, tt.want)
			}
		}
	}
}

func TestStem(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report",
		"/tmp/x/Guide v2.pdf": "Guide v2",
		"archive.tar.gz":      "archive.tar",
		"README":              "README",
	}
	for in, want := range tests {
		if got := Stem(in); got != want {
			t.Errorf("Stem(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("Doc.PDF") {
		t.Error("expected .PDF to be supported")
	}
	if IsSupportedExtension("sheet.csv") {
		t.Error("expected .csv to be unsupported")
	}
}
