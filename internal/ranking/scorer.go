// Package ranking scores sections and sub-sections of a document collection
// against a persona and job with a hybrid of TF-IDF similarity and keyword
// overlap.
package ranking

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
	"github.com/tanisha290/adobe-teamkt-1b/internal/persona"
	"github.com/tanisha290/adobe-teamkt-1b/internal/terms"
)

// ErrVectorSpaceUnavailable reports that similarity could not be computed
// (too few non-empty texts or an empty query) and keyword-only scoring was
// used instead.
var ErrVectorSpaceUnavailable = errors.New("vector space unavailable")

// Hybrid score weights. They sum to 1.
const (
	WeightSimilarity = 0.4
	WeightPersona    = 0.3
	WeightJob        = 0.2
	WeightTitle      = 0.1

	FallbackWeightPersona = 0.6
	FallbackWeightJob     = 0.4
)

// DefaultMaxRanked caps the ranked sections of one collection.
const DefaultMaxRanked = 20

// Components are the sub-scores behind a hybrid score.
type Components struct {
	Similarity float64 `json:"similarity"`
	PersonaKw  float64 `json:"persona_keywords"`
	JobKw      float64 `json:"job_keywords"`
	TitleKw    float64 `json:"title_keywords"`
}

// Combine returns the hybrid score, or the keyword-only score when
// keywordOnly is set.
func (c Components) Combine(keywordOnly bool) float64 {
	if keywordOnly {
		return FallbackWeightPersona*c.PersonaKw + FallbackWeightJob*c.JobKw
	}
	return WeightSimilarity*c.Similarity + WeightPersona*c.PersonaKw +
		WeightJob*c.JobKw + WeightTitle*c.TitleKw
}

// RankedSection is a section with its collection-wide rank.
type RankedSection struct {
	Section    doctree.Section
	Score      float64
	Rank       int // 1 = most relevant
	Components Components
}

// Ranking is the result of RankSections.
type Ranking struct {
	Sections []RankedSection
	// Fallback is non-nil (wrapping ErrVectorSpaceUnavailable) when
	// keyword-only scoring was used.
	Fallback error
}

// scorer computes Components for texts that share one vector space with
// the query.
type scorer struct {
	kw          persona.Keywords
	combined    persona.Terms
	vectors     []vector
	query       vector
	keywordOnly bool
	fallback    error
}

// newScorer builds the vector space over texts plus the query. It falls
// back to keyword-only scoring when fewer than two texts have content or
// the query has none.
func newScorer(texts []string, kw persona.Keywords) *scorer {
	s := &scorer{kw: kw, combined: kw.Combined()}

	docs := make([]string, 0, len(texts)+1)
	docs = append(docs, texts...)
	docs = append(docs, kw.Query)
	vecs := buildVectors(docs)
	s.vectors, s.query = vecs[:len(texts)], vecs[len(texts)]

	nonEmpty := 0
	for _, v := range s.vectors {
		if !v.empty() {
			nonEmpty++
		}
	}
	switch {
	case s.query.empty():
		s.fallback = fmt.Errorf("%w: empty query", ErrVectorSpaceUnavailable)
	case nonEmpty < 2:
		s.fallback = fmt.Errorf("%w: %d non-empty texts", ErrVectorSpaceUnavailable, nonEmpty)
	}
	s.keywordOnly = s.fallback != nil
	return s
}

func (s *scorer) components(i int, text, title string) Components {
	toks := terms.Set(text)
	c := Components{
		PersonaKw: s.kw.Persona.Fraction(toks),
		JobKw:     s.kw.Job.Fraction(toks),
		TitleKw:   s.combined.Fraction(terms.Set(title)),
	}
	if !s.keywordOnly {
		c.Similarity = min(max(cosine(s.vectors[i], s.query), 0), 1)
	}
	return c
}

// RankSections scores every section of the collection against the persona
// and job, sorts them (score descending, then document order, page and
// position) and assigns ranks 1..K across the collection, keeping at most
// limit sections. A section is ranked once per (document, position).
func RankSections(sections []doctree.Section, kw persona.Keywords, limit int) Ranking {
	if limit <= 0 {
		limit = DefaultMaxRanked
	}

	texts := make([]string, len(sections))
	for i, sec := range sections {
		texts[i] = sec.Text()
	}
	s := newScorer(texts, kw)

	scored := make([]RankedSection, len(sections))
	for i, sec := range sections {
		c := s.components(i, texts[i], sec.Title.Text)
		scored[i] = RankedSection{Section: sec, Score: c.Combine(s.keywordOnly), Components: c}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Section.DocIndex != b.Section.DocIndex {
			return a.Section.DocIndex < b.Section.DocIndex
		}
		if a.Section.PageStart != b.Section.PageStart {
			return a.Section.PageStart < b.Section.PageStart
		}
		return a.Section.Order < b.Section.Order
	})

	type key struct {
		doc   string
		order int
	}
	seen := make(map[key]bool)
	out := make([]RankedSection, 0, min(limit, len(scored)))
	for _, r := range scored {
		k := key{r.Section.DocID, r.Section.Order}
		if seen[k] {
			continue
		}
		seen[k] = true
		r.Rank = len(out) + 1
		out = append(out, r)
		if len(out) == limit {
			break
		}
	}
	return Ranking{Sections: out, Fallback: s.fallback}
}
