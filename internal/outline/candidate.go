package outline

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

// Kind tags the evidence that made a line a heading candidate.
type Kind int

const (
	SizeOnly  Kind = iota // typography only
	Numbered              // "1", "1.2", "1.2.3", "1.2.3.4"
	Keyword               // Chapter / Appendix / Section / Part
	Caps                  // ALL CAPS short line
	Label                 // short line ending with a colon
	TitleCase             // Title Case short line
)

func (k Kind) String() string {
	switch k {
	case Numbered:
		return "numbered"
	case Keyword:
		return "keyword"
	case Caps:
		return "caps"
	case Label:
		return "label"
	case TitleCase:
		return "titlecase"
	default:
		return "size"
	}
}

// Evidence is the pattern match behind a candidate. Depth is set only for
// Numbered evidence.
type Evidence struct {
	Kind  Kind
	Depth int
}

// Candidate is a line that might be a heading.
type Candidate struct {
	Line       int // index into the normalized lines
	Text       string
	Size       float64
	Page       int
	Y          float64
	Evidence   Evidence
	Typography bool // typography family fired
}

// LevelHint returns the level implied by hierarchical numbering, or
// LevelNone when the candidate is not numbered.
func (c Candidate) LevelHint() doctree.Level {
	if c.Evidence.Kind != Numbered || c.Evidence.Depth < 1 {
		return doctree.LevelNone
	}
	if c.Evidence.Depth > int(doctree.MaxLevel) {
		return doctree.MaxLevel
	}
	return doctree.Level(c.Evidence.Depth)
}

// Score is the pattern strength used to break ties between duplicates.
func (c Candidate) Score() float64 {
	var s float64
	switch c.Evidence.Kind {
	case Numbered:
		s = 1.0
	case Keyword:
		s = 0.9
	case Caps:
		s = 0.7
	case Label:
		s = 0.6
	case TitleCase:
		s = 0.5
	default:
		return 0.3
	}
	if c.Typography {
		s += 0.2
	}
	return s
}

var (
	numberedRe = regexp.MustCompile(`^(\d{1,3}(?:\.\d{1,3}){0,3})\.?\s+(\S.*)$`)
	keywordRe  = regexp.MustCompile(`(?i)^(chapter|appendix|section|part)\b`)
	leaderRe   = regexp.MustCompile(`\s*\.{3,}[\s.]*\d*\s*$`)

	skipRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^page\s+\d+(\s+of\s+\d+)?$`),
		regexp.MustCompile(`^[\d\s.,\-/]+$`),
		regexp.MustCompile(`(?i)copyright|©`),
		regexp.MustCompile(`(?i)all rights reserved`),
	}
)

// minor words may stay lowercase inside a Title Case line.
var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true, "but": true, "by": true,
	"for": true, "in": true, "nor": true, "of": true, "on": true, "or": true, "the": true,
	"to": true, "vs": true, "via": true, "with": true, "from": true, "into": true,
}

const (
	minHeadingChars   = 3
	maxHeadingChars   = 200
	maxPatternWords   = 15
	maxShortWords     = 10
	maxTypographyWord = 25
	sizeRatio         = 1.05
)

// CleanHeadingText removes table-of-contents dot leaders and the page
// number that follows them.
func CleanHeadingText(s string) string {
	return strings.TrimSpace(leaderRe.ReplaceAllString(s, ""))
}

// Detect flags heading candidates among lines. Lines whose index is in skip
// (title, running headers and footers) are never candidates.
func Detect(lines []doctree.Line, bodySize float64, margins map[int]float64, skip map[int]bool) []Candidate {
	var out []Candidate
	for i, l := range lines {
		if skip[i] {
			continue
		}
		text := CleanHeadingText(l.Text)
		if !plausibleText(text) {
			continue
		}
		ev, patternOK := matchPattern(text)
		typo := typographyFires(l, bodySize, margins)
		if !patternOK && !typo {
			continue
		}
		if !patternOK {
			if len(strings.Fields(text)) > maxTypographyWord {
				continue
			}
			ev = Evidence{Kind: SizeOnly}
		}
		out = append(out, Candidate{
			Line:       i,
			Text:       text,
			Size:       l.FontSize,
			Page:       l.Page,
			Y:          l.Y,
			Evidence:   ev,
			Typography: typo,
		})
	}
	return out
}

func plausibleText(text string) bool {
	if len(text) < minHeadingChars || len(text) > maxHeadingChars {
		return false
	}
	if !strings.ContainsFunc(text, unicode.IsLetter) {
		return false
	}
	for _, re := range skipRes {
		if re.MatchString(text) {
			return false
		}
	}
	return true
}

// matchPattern tries the pattern family in order and returns the first hit.
func matchPattern(text string) (Evidence, bool) {
	words := strings.Fields(text)
	if len(words) > maxPatternWords {
		return Evidence{}, false
	}

	if m := numberedRe.FindStringSubmatch(text); m != nil && numberedRest(m[2]) {
		return Evidence{Kind: Numbered, Depth: strings.Count(m[1], ".") + 1}, true
	}
	if keywordRe.MatchString(text) {
		return Evidence{Kind: Keyword}, true
	}
	if len(words) > maxShortWords {
		return Evidence{}, false
	}
	if isAllCaps(text) {
		return Evidence{Kind: Caps}, true
	}
	if strings.HasSuffix(text, ":") && len(text) > minHeadingChars {
		return Evidence{Kind: Label}, true
	}
	if isTitleCase(words) {
		return Evidence{Kind: TitleCase}, true
	}
	return Evidence{}, false
}

// numberedRest rejects numbered list items: the heading text must start
// with an uppercase letter and must not read as a sentence.
func numberedRest(rest string) bool {
	r := []rune(rest)
	if len(r) == 0 || !unicode.IsUpper(r[0]) {
		return false
	}
	return !endsWithTerminal(rest)
}

func isAllCaps(text string) bool {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters >= 2
}

func isTitleCase(words []string) bool {
	if len(words) == 0 || endsWithTerminal(words[len(words)-1]) {
		return false
	}
	significant := 0
	for i, w := range words {
		r := []rune(strings.TrimLeftFunc(w, func(r rune) bool { return !unicode.IsLetter(r) && !unicode.IsDigit(r) }))
		if len(r) == 0 || unicode.IsDigit(r[0]) {
			continue
		}
		if i > 0 && minorWords[strings.ToLower(string(r))] {
			continue
		}
		if !unicode.IsUpper(r[0]) {
			return false
		}
		significant++
	}
	return significant > 0
}

func endsWithTerminal(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") ||
		strings.HasSuffix(s, ";") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func typographyFires(l doctree.Line, bodySize float64, margins map[int]float64) bool {
	if bodySize <= 0 {
		return false
	}
	if l.FontSize >= bodySize*sizeRatio {
		return true
	}
	if l.FontSize < bodySize {
		return false
	}
	if l.Bold {
		return true
	}
	if m, ok := margins[l.Page]; ok && l.X < m-1 {
		return true
	}
	return false
}
