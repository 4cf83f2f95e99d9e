// Package terms holds the tokenizer shared by keyword extraction and
// relevance scoring: lowercase word splitting, a stopword filter and a light
// plural stemmer, so "Datasets" in a job description matches "dataset" in a
// section body.
package terms

import (
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a about above after again against all also am an and any are as at be because been
		before being below between both but by can could did do does doing down during each
		etc few for from further get got had has have having he her here hers herself him
		himself his how however i if in into is it its itself just let like may me might more
		most must my myself need needs no nor not now of off on once only or other our ours
		ourselves out over own per same shall she should so some such than that the their
		theirs them themselves then there these they this those through to too under until up
		upon us use used using very via want was we well were what when where which while who
		whom why will with within without would you your yours yourself yourselves
	`) {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether w (already lowercased) carries no topical meaning.
func IsStopword(w string) bool {
	_, ok := stopwords[w]
	return ok
}

// Stem reduces common English plural forms. It is intentionally shallow:
// only suffixes that never change meaning are removed.
func Stem(w string) string {
	switch {
	case len(w) > 4 && strings.HasSuffix(w, "ies"):
		return w[:len(w)-3] + "y"
	case len(w) > 4 && strings.HasSuffix(w, "sses"):
		return w[:len(w)-2]
	case len(w) > 3 && strings.HasSuffix(w, "s") &&
		!strings.HasSuffix(w, "ss") && !strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return w[:len(w)-1]
	}
	return w
}

// Words splits text into lowercase alphanumeric words without filtering.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Tokenize returns the stemmed content words of text in order. Stopwords,
// single letters and pure numbers are dropped.
func Tokenize(text string) []string {
	words := Words(text)
	out := make([]string, 0, len(words))
	for _, w := range words {
		if len([]rune(w)) < 2 || IsStopword(w) || isNumber(w) {
			continue
		}
		out = append(out, Stem(w))
	}
	return out
}

// Set returns the distinct tokens of text.
func Set(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

func isNumber(w string) bool {
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
