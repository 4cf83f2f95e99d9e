package outline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

func sizedCandidates(sizes ...float64) []Candidate {
	out := make([]Candidate, len(sizes))
	for i, s := range sizes {
		out[i] = Candidate{Line: i, Text: fmt.Sprintf("Heading %d", i), Size: s, Page: 1, Y: float64(i * 40)}
	}
	return out
}

func TestClassify_DirectMapping(t *testing.T) {
	cls := Classify(sizedCandidates(24, 24, 18, 14, 14, 10))

	assert.False(t, cls.Clustered)
	assert.False(t, cls.Degenerate)
	assert.Equal(t, []doctree.Level{
		doctree.H1, doctree.H1, doctree.H2, doctree.H3, doctree.H3, doctree.H4,
	}, cls.Levels)
}

func TestClassify_SevenSizesClusterToFourMonotoneLevels(t *testing.T) {
	sizes := []float64{30, 26, 20, 18, 14, 12, 11}
	cands := sizedCandidates(sizes...)
	cls := Classify(cands)

	require.True(t, cls.Clustered)
	distinct := make(map[doctree.Level]bool)
	for i, lvl := range cls.Levels {
		require.NotEqual(t, doctree.LevelNone, lvl, "size %v dropped", sizes[i])
		distinct[lvl] = true
	}
	assert.LessOrEqual(t, len(distinct), 4)
	for i := 1; i < len(sizes); i++ {
		// sizes are descending, so levels must never get shallower
		assert.GreaterOrEqual(t, cls.Levels[i], cls.Levels[i-1], "sizes %v -> levels %v", sizes, cls.Levels)
	}
	assert.Equal(t, doctree.H1, cls.Levels[0])
}

func TestClassify_EqualSizesShareLevel(t *testing.T) {
	cls := Classify(sizedCandidates(30, 26, 20, 20, 18, 14, 12, 12, 11))
	assert.Equal(t, cls.Levels[2], cls.Levels[3])
	assert.Equal(t, cls.Levels[6], cls.Levels[7])
}

func TestClassify_Degenerate(t *testing.T) {
	cands := sizedCandidates(12, 12, 12)
	cands[2].Evidence = Evidence{Kind: Numbered, Depth: 3}
	cls := Classify(cands)

	assert.True(t, cls.Degenerate)
	for _, lvl := range cls.Levels {
		assert.Equal(t, doctree.H1, lvl)
	}
}

func TestClassify_NumberingHintWins(t *testing.T) {
	cands := sizedCandidates(24, 18, 18)
	cands[2].Evidence = Evidence{Kind: Numbered, Depth: 3}
	cls := Classify(cands)

	assert.Equal(t, doctree.H2, cls.Levels[1])
	assert.Equal(t, doctree.H3, cls.Levels[2])
}

func TestRepairSequence_NeverSkipsLevels(t *testing.T) {
	levels := []doctree.Level{doctree.H3, doctree.H1, doctree.H4, doctree.H2, doctree.H4, doctree.H1, doctree.H3}
	hs := make([]Heading, len(levels))
	for i, l := range levels {
		hs[i] = Heading{Entry: doctree.OutlineEntry{Level: l, Text: fmt.Sprint(i), Page: 1}}
	}
	hs = RepairSequence(hs)

	got := make([]doctree.Level, len(hs))
	for i, h := range hs {
		got[i] = h.Entry.Level
	}
	assert.Equal(t, []doctree.Level{
		doctree.H1, doctree.H1, doctree.H2, doctree.H2, doctree.H3, doctree.H1, doctree.H3,
	}, got)
	assertNoSkips(t, hs)
}

func TestRepairSequence_DemotedLevelCounts(t *testing.T) {
	// A demoted heading still raises the deepest level seen, so the second
	// H3 is accepted under the demoted H2.
	hs := []Heading{
		{Entry: doctree.OutlineEntry{Level: doctree.H1, Text: "a", Page: 1}},
		{Entry: doctree.OutlineEntry{Level: doctree.H3, Text: "b", Page: 1}},
		{Entry: doctree.OutlineEntry{Level: doctree.H3, Text: "c", Page: 1}},
	}
	hs = RepairSequence(hs)

	assert.Equal(t, doctree.H1, hs[0].Entry.Level)
	assert.Equal(t, doctree.H2, hs[1].Entry.Level)
	assert.Equal(t, doctree.H3, hs[2].Entry.Level)
}

func assertNoSkips(t *testing.T, hs []Heading) {
	t.Helper()
	var deepest doctree.Level
	for _, h := range hs {
		assert.LessOrEqual(t, h.Entry.Level, deepest+1, "level %v introduced before %v", h.Entry.Level, deepest+1)
		deepest = max(deepest, h.Entry.Level)
	}
}

func TestDedupe_KeepsStrongerDuplicate(t *testing.T) {
	hs := Dedupe([]Heading{
		{Line: 0, Entry: doctree.OutlineEntry{Level: doctree.H2, Text: "Overview", Page: 1}, Score: 0.3},
		{Line: 1, Entry: doctree.OutlineEntry{Level: doctree.H1, Text: "Overview", Page: 1}, Score: 0.9},
		{Line: 2, Entry: doctree.OutlineEntry{Level: doctree.H1, Text: "Overview", Page: 2}, Score: 0.3},
	})
	require.Len(t, hs, 2)
	assert.Equal(t, 1, hs[0].Line)
	assert.Equal(t, 2, hs[1].Entry.Page)
}

func TestRunningNoise(t *testing.T) {
	var lines []doctree.Line
	for p := 1; p <= 3; p++ {
		lines = append(lines,
			doctree.Line{Text: "ACME Quarterly Report", FontSize: 9, Page: p, Y: 30, PageHeight: 792},
			doctree.Line{Text: fmt.Sprintf("Body of page %d", p), FontSize: 10, Page: p, Y: 300, PageHeight: 792},
		)
	}
	noise := RunningNoise(lines)
	assert.True(t, noise[0])
	assert.True(t, noise[2])
	assert.True(t, noise[4])
	assert.False(t, noise[1])
	assert.Len(t, noise, 3)
}

func TestRunningNoise_SinglePage(t *testing.T) {
	lines := []doctree.Line{
		{Text: "Header", Page: 1, Y: 30, PageHeight: 792},
		{Text: "Header", Page: 1, Y: 31, PageHeight: 792},
	}
	assert.Empty(t, RunningNoise(lines))
}

func TestResolveTitle(t *testing.T) {
	lines := []doctree.Line{
		{Text: "Understanding", FontSize: 24, Page: 1, Y: 80},
		{Text: "Protein Folding", FontSize: 24, Page: 1, Y: 110},
		{Text: "A survey", FontSize: 14, Page: 1, Y: 140},
		{Text: "Body", FontSize: 10, Page: 1, Y: 200},
		{Text: "Body", FontSize: 10, Page: 2, Y: 200},
	}
	title, used := ResolveTitle(lines, 10, "doc")
	assert.Equal(t, "Understanding Protein Folding", title)
	assert.Equal(t, []int{0, 1}, used)
}

func TestResolveTitle_NothingAboveBody(t *testing.T) {
	lines := []doctree.Line{
		{Text: "plain first line", FontSize: 10, Page: 1},
		{Text: "second", FontSize: 10, Page: 1},
	}
	title, used := ResolveTitle(lines, 10, "doc")
	assert.Equal(t, "plain first line", title)
	assert.Equal(t, []int{0}, used)
}

func TestResolveTitle_EmptyFirstPage(t *testing.T) {
	lines := []doctree.Line{{Text: "Later", FontSize: 20, Page: 2}}
	title, used := ResolveTitle(lines, 10, "annual-report")
	assert.Equal(t, "annual-report", title)
	assert.Empty(t, used)

	title, _ = ResolveTitle(nil, 10, "  ")
	assert.Equal(t, UntitledDocument, title)
}

func TestDetect_PatternsAndTypography(t *testing.T) {
	lines := []doctree.Line{
		{Text: "2.1 Background", FontSize: 10, Page: 1, X: 72, Y: 100},
		{Text: "CHAPTER ONE", FontSize: 10, Page: 1, X: 72, Y: 120},
		{Text: "the quick brown fox jumps over the lazy dog and keeps running far away.", FontSize: 10, Page: 1, X: 72, Y: 140},
		{Text: "Ingredients:", FontSize: 10, Page: 1, X: 72, Y: 160},
		{Text: "an unremarkable lowercase body line", FontSize: 10, Page: 1, X: 72, Y: 180},
		{Text: "emphasised body line in bold type", FontSize: 10, Bold: true, Page: 1, X: 72, Y: 200},
		{Text: "Contents ........ 3", FontSize: 14, Page: 1, X: 72, Y: 220},
		{Text: "Page 3 of 10", FontSize: 14, Page: 1, X: 72, Y: 240},
		{Text: "3. Mix the flour with water.", FontSize: 10, Page: 1, X: 72, Y: 260},
	}
	cands := Detect(lines, 10, nil, nil)

	byLine := make(map[int]Candidate)
	for _, c := range cands {
		byLine[c.Line] = c
	}
	require.Contains(t, byLine, 0)
	assert.Equal(t, Numbered, byLine[0].Evidence.Kind)
	assert.Equal(t, doctree.H2, byLine[0].LevelHint())
	assert.Equal(t, Keyword, byLine[1].Evidence.Kind)
	assert.NotContains(t, byLine, 2)
	assert.Equal(t, Label, byLine[3].Evidence.Kind)
	assert.NotContains(t, byLine, 4)
	require.Contains(t, byLine, 5)
	assert.Equal(t, SizeOnly, byLine[5].Evidence.Kind)
	require.Contains(t, byLine, 6)
	assert.Equal(t, "Contents", byLine[6].Text)
	assert.NotContains(t, byLine, 7)
	assert.NotContains(t, byLine, 8)
}

func TestDetect_PatternLineBelowBodySize(t *testing.T) {
	lines := []doctree.Line{
		{Text: "CONTACT INFORMATION", FontSize: 9, Page: 1, X: 72, Y: 100},
		{Text: "Chapter 2 Results", FontSize: 9.5, Page: 1, X: 72, Y: 120},
		{Text: "a small lowercase footnote line", FontSize: 9, Page: 1, X: 72, Y: 140},
	}
	cands := Detect(lines, 10, nil, nil)

	require.Len(t, cands, 2)
	assert.Equal(t, Caps, cands[0].Evidence.Kind)
	assert.False(t, cands[0].Typography)
	assert.Equal(t, Keyword, cands[1].Evidence.Kind)

	cls := Classify(cands)
	assert.Equal(t, []doctree.Level{doctree.H2, doctree.H1}, cls.Levels)
}

func TestDetect_SkipsExcludedLines(t *testing.T) {
	lines := []doctree.Line{{Text: "BIG TITLE", FontSize: 30, Page: 1}}
	assert.Empty(t, Detect(lines, 10, nil, map[int]bool{0: true}))
}

func TestDetect_OutdentedLine(t *testing.T) {
	lines := []doctree.Line{
		{Text: "summary of results", FontSize: 10, Page: 1, X: 50, Y: 90},
		{Text: "body one", FontSize: 10, Page: 1, X: 72, Y: 100},
	}
	cands := Detect(lines, 10, map[int]float64{1: 72}, nil)
	require.Len(t, cands, 1)
	assert.Equal(t, 0, cands[0].Line)
	assert.True(t, cands[0].Typography)
}

// twoPageDoc is a small report with a title, three heading sizes, body
// text and a running footer.
func twoPageDoc() []doctree.Line {
	mk := func(text string, size float64, bold bool, page int, y float64) doctree.Line {
		return doctree.Line{Text: text, FontSize: size, Bold: bold, Page: page, X: 72, Y: y, PageHeight: 792}
	}
	return []doctree.Line{
		mk("Field Guide to Testing", 26, true, 1, 80),
		mk("Introduction", 18, true, 1, 140),
		mk("Testing software is a discipline with a long", 10, false, 1, 170),
		mk("history of practice and theory.", 10, false, 1, 182),
		mk("A second paragraph starts after a gap.", 10, false, 1, 210),
		mk("Unit tests", 14, true, 1, 250),
		mk("Unit tests check one function at a time and run fast in a develop-", 10, false, 1, 280),
		mk("ment loop.", 10, false, 1, 292),
		mk("Confidential draft", 8, false, 1, 760),
		mk("Results", 18, true, 2, 80),
		mk("We observed fewer regressions.", 10, false, 2, 110),
		mk("Confidential draft", 8, false, 2, 760),
	}
}

func TestExtract_EndToEnd(t *testing.T) {
	res := Extract(twoPageDoc(), "guide.pdf")

	assert.Equal(t, "Field Guide to Testing", res.Tree.Title)
	require.Equal(t, []doctree.OutlineEntry{
		{Level: doctree.H1, Text: "Introduction", Page: 1},
		{Level: doctree.H2, Text: "Unit tests", Page: 1},
		{Level: doctree.H1, Text: "Results", Page: 2},
	}, res.Tree.Outline)
	assert.True(t, res.Skip[8], "running footer is noise")
	assert.True(t, res.Skip[0], "title line is excluded")
}

func TestExtract_Empty(t *testing.T) {
	res := Extract(nil, "notes")
	assert.Equal(t, "notes", res.Tree.Title)
	assert.NotNil(t, res.Tree.Outline)
	assert.Empty(t, res.Tree.Outline)
}

func TestBuildSections(t *testing.T) {
	res := Extract(twoPageDoc(), "guide.pdf")
	secs := BuildSections("guide.pdf", 0, res)

	require.Len(t, secs, 3)
	intro := secs[0]
	assert.Equal(t, "Introduction", intro.Title.Text)
	assert.Equal(t, 1, intro.PageStart)
	assert.Equal(t, 1, intro.PageEnd)
	require.Len(t, intro.Paragraphs, 4)
	assert.Equal(t, "Testing software is a discipline with a long history of practice and theory.", intro.Paragraphs[0].Text)
	assert.Equal(t, "Unit tests", intro.Paragraphs[2].Text)
	assert.Equal(t, "Unit tests check one function at a time and run fast in a development loop.", intro.Paragraphs[3].Text)
	assert.NotContains(t, intro.Body(), "Confidential")

	assert.Equal(t, "Unit tests", secs[1].Title.Text)
	assert.Equal(t, 1, secs[1].Order)
	assert.Equal(t, "Results", secs[2].Title.Text)
	assert.Equal(t, "We observed fewer regressions.", secs[2].Body())
}

func TestBuildSections_PageFallback(t *testing.T) {
	lines := []doctree.Line{
		{Text: "first page opening line", FontSize: 10, Page: 1, Y: 100},
		{Text: "more text on page one", FontSize: 10, Page: 1, Y: 112},
		{Text: "second page opening line", FontSize: 10, Page: 2, Y: 100},
	}
	res := Result{Lines: lines, Skip: map[int]bool{}}
	secs := BuildSections("plain.pdf", 3, res)

	require.Len(t, secs, 2)
	assert.Equal(t, "first page opening line", secs[0].Title.Text)
	assert.Equal(t, doctree.H1, secs[0].Title.Level)
	assert.Equal(t, "more text on page one", secs[0].Body())
	assert.Equal(t, 3, secs[1].DocIndex)
	assert.Equal(t, 2, secs[1].PageStart)
	assert.Empty(t, secs[1].Body())
}
