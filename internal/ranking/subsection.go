package ranking

import (
	"sort"

	"github.com/tanisha290/adobe-teamkt-1b/internal/chunker"
	"github.com/tanisha290/adobe-teamkt-1b/internal/persona"
)

// SubsectionOptions bounds refinement.
type SubsectionOptions struct {
	Sections   int     // top ranked sections to refine; 0 means all
	PerSection int     // excerpts kept per section; 0 means all
	MinScore   float64 // units scoring below this are discarded
	MaxChars   int     // excerpt length cap
}

// DefaultSubsectionOptions returns the collection output limits.
func DefaultSubsectionOptions() SubsectionOptions {
	return SubsectionOptions{
		Sections:   5,
		PerSection: 3,
		MinScore:   0.1,
		MaxChars:   500,
	}
}

// Subsection is a refined excerpt of a ranked section.
type Subsection struct {
	DocID       string
	Page        int
	Text        string
	Score       float64
	SectionRank int
	Components  Components
	unit        int
}

// Refinement is the result of RefineSubsections.
type Refinement struct {
	Subsections []Subsection
	// Fallback is non-nil (wrapping ErrVectorSpaceUnavailable) when
	// keyword-only scoring was used.
	Fallback error
}

// RefineSubsections splits the top ranked sections into paragraph or
// sentence units and scores each unit on its own text. A unit has no title,
// so its title component is zero. Units
// below MinScore are dropped; the rest are truncated to MaxChars on a word
// boundary and returned by score descending.
func RefineSubsections(ranked []RankedSection, kw persona.Keywords, opts SubsectionOptions) Refinement {
	if opts.MaxChars <= 0 {
		opts.MaxChars = 500
	}
	if opts.Sections > 0 && len(ranked) > opts.Sections {
		ranked = ranked[:opts.Sections]
	}

	type pending struct {
		rank int
		unit chunker.Unit
		doc  string
	}
	var units []pending
	ucfg := chunker.DefaultConfig()
	ucfg.MaxChars = opts.MaxChars
	for _, r := range ranked {
		for _, u := range chunker.Units(r.Section, ucfg) {
			units = append(units, pending{rank: r.Rank, unit: u, doc: r.Section.DocID})
		}
	}

	texts := make([]string, len(units))
	for i, u := range units {
		texts[i] = u.unit.Text
	}
	s := newScorer(texts, kw)

	bySection := make(map[int][]Subsection)
	for i, u := range units {
		c := s.components(i, u.unit.Text, "")
		score := c.Combine(s.keywordOnly)
		if score < opts.MinScore {
			continue
		}
		text := chunker.Truncate(u.unit.Text, opts.MaxChars)
		if text == "" {
			continue
		}
		bySection[u.rank] = append(bySection[u.rank], Subsection{
			DocID:       u.doc,
			Page:        u.unit.Page,
			Text:        text,
			Score:       score,
			SectionRank: u.rank,
			Components:  c,
			unit:        u.unit.Index,
		})
	}

	var out []Subsection
	for _, r := range ranked {
		subs := bySection[r.Rank]
		sortSubsections(subs)
		if opts.PerSection > 0 && len(subs) > opts.PerSection {
			subs = subs[:opts.PerSection]
		}
		out = append(out, subs...)
	}
	sortSubsections(out)
	return Refinement{Subsections: out, Fallback: s.fallback}
}

func sortSubsections(subs []Subsection) {
	sort.SliceStable(subs, func(i, j int) bool {
		a, b := subs[i], subs[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.SectionRank != b.SectionRank {
			return a.SectionRank < b.SectionRank
		}
		return a.unit < b.unit
	})
}
