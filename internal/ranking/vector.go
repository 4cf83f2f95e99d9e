package ranking

import (
	"math"
	"sort"

	"github.com/tanisha290/adobe-teamkt-1b/internal/terms"
)

// vector is a sparse L2-normalized TF-IDF vector with terms in sorted
// order so dot products are computed in a fixed order.
type vector struct {
	terms   []string
	weights []float64
}

// features returns the unigrams and bigrams of text's content tokens.
func features(text string) []string {
	toks := terms.Tokenize(text)
	out := make([]string, 0, 2*len(toks))
	out = append(out, toks...)
	for i := 1; i < len(toks); i++ {
		out = append(out, toks[i-1]+" "+toks[i])
	}
	return out
}

// buildVectors builds TF-IDF vectors for docs over a vocabulary shared by
// all of them: tf is 1+ln(count), idf is ln((1+n)/(1+df))+1.
func buildVectors(docs []string) []vector {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, d := range docs {
		c := make(map[string]int)
		for _, f := range features(d) {
			c[f]++
		}
		for f := range c {
			df[f]++
		}
		counts[i] = c
	}

	n := float64(len(docs))
	out := make([]vector, len(docs))
	for i, c := range counts {
		keys := make([]string, 0, len(c))
		for f := range c {
			keys = append(keys, f)
		}
		sort.Strings(keys)

		v := vector{terms: keys, weights: make([]float64, len(keys))}
		var norm float64
		for j, f := range keys {
			tf := 1 + math.Log(float64(c[f]))
			idf := math.Log((1+n)/(1+float64(df[f]))) + 1
			w := tf * idf
			v.weights[j] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for j := range v.weights {
				v.weights[j] /= norm
			}
		}
		out[i] = v
	}
	return out
}

// cosine returns the cosine similarity of two normalized vectors.
func cosine(a, b vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(a.terms) && j < len(b.terms) {
		switch {
		case a.terms[i] == b.terms[j]:
			dot += a.weights[i] * b.weights[j]
			i++
			j++
		case a.terms[i] < b.terms[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

func (v vector) empty() bool {
	return len(v.terms) == 0
}
