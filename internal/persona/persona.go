// Package persona derives weighted keyword sets from a reader persona and the
// task they need done.
package persona

import (
	"sort"
	"strings"

	"github.com/tanisha290/adobe-teamkt-1b/internal/terms"
)

// Term weights.
const (
	directWeight  = 1.0 // words the caller wrote
	lexiconWeight = 0.5 // supplementary role keywords
)

// Profile describes the reader.
type Profile struct {
	Role      string   `json:"role"`
	Expertise []string `json:"expertise,omitempty"`
}

// Job is the task the reader needs done.
type Job struct {
	Task         string   `json:"task"`
	Requirements []string `json:"requirements,omitempty"`
}

// Terms maps stemmed terms to weights.
type Terms map[string]float64

// Total returns the sum of all weights, added in term order so repeated
// runs produce identical floats.
func (t Terms) Total() float64 {
	var sum float64
	for _, k := range t.Sorted() {
		sum += t[k]
	}
	return sum
}

// Fraction returns the share of the total weight whose terms are present
// in tokens. An empty term set yields 0.
func (t Terms) Fraction(tokens map[string]struct{}) float64 {
	total := t.Total()
	if total == 0 {
		return 0
	}
	var hit float64
	for _, k := range t.Sorted() {
		if _, ok := tokens[k]; ok {
			hit += t[k]
		}
	}
	return hit / total
}

// Sorted returns the terms in lexical order.
func (t Terms) Sorted() []string {
	out := make([]string, 0, len(t))
	for k := range t {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (t Terms) add(text string, weight float64) {
	for _, tok := range terms.Tokenize(text) {
		if weight > t[tok] {
			t[tok] = weight
		}
	}
}

// Keywords is the output of Extract.
type Keywords struct {
	Persona     Terms
	Job         Terms
	MatchedRole string // lexicon role merged into Persona, if any
	Query       string // persona text followed by job text
}

// Combined returns the union of persona and job terms, keeping the higher
// weight for shared terms.
func (k Keywords) Combined() Terms {
	out := make(Terms, len(k.Persona)+len(k.Job))
	for t, w := range k.Persona {
		out[t] = w
	}
	for t, w := range k.Job {
		if w > out[t] {
			out[t] = w
		}
	}
	return out
}

// Empty reports whether neither persona nor job produced any term.
func (k Keywords) Empty() bool {
	return len(k.Persona) == 0 && len(k.Job) == 0
}

// Extract tokenizes the persona and job into weighted term sets and merges
// in the keywords of the best matching lexicon role. Missing fields yield
// empty sets. lex may be nil.
func Extract(p Profile, j Job, lex *Lexicon) Keywords {
	k := Keywords{Persona: Terms{}, Job: Terms{}}

	k.Persona.add(p.Role, directWeight)
	for _, e := range p.Expertise {
		k.Persona.add(e, directWeight)
	}
	if role, _, ok := lex.Match(p.Role); ok {
		k.MatchedRole = role.Name
		for _, kw := range role.Keywords {
			k.Persona.add(kw, lexiconWeight)
		}
	}

	k.Job.add(j.Task, directWeight)
	for _, r := range j.Requirements {
		k.Job.add(r, directWeight)
	}

	parts := []string{p.Role}
	parts = append(parts, p.Expertise...)
	parts = append(parts, j.Task)
	parts = append(parts, j.Requirements...)
	k.Query = strings.TrimSpace(strings.Join(nonEmpty(parts), " "))
	return k
}

func nonEmpty(ss []string) []string {
	out := ss[:0:0]
	for _, s := range ss {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
