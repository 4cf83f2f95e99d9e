package outline

import (
	"math"
	"sort"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

const (
	numLevels     = int(doctree.MaxLevel)
	maxIterations = 100
)

// Classification holds the level of every classified candidate, parallel to
// the input slice. LevelNone marks candidates dropped as body-text noise.
type Classification struct {
	Levels []doctree.Level
	// Degenerate is set when all candidates share one size: clustering is
	// skipped and everything is H1.
	Degenerate bool
	// Clustered is set when k-means ran (more than four distinct sizes).
	Clustered bool
}

// Classify maps candidate font sizes to heading levels H1..H4. Numbered
// candidates take their numbering depth over the size-derived level.
func Classify(cands []Candidate) Classification {
	res := Classification{Levels: make([]doctree.Level, len(cands))}
	if len(cands) == 0 {
		return res
	}

	sizes := distinctSizes(cands)
	var levelOf map[float64]doctree.Level
	switch {
	case len(sizes) == 1:
		res.Degenerate = true
		levelOf = map[float64]doctree.Level{sizes[0]: doctree.H1}
	case len(sizes) <= numLevels:
		levelOf = make(map[float64]doctree.Level, len(sizes))
		for rank, s := range sizes {
			levelOf[s] = doctree.Level(rank + 1)
		}
	default:
		res.Clustered = true
		values := make([]float64, len(cands))
		for i, c := range cands {
			values[i] = c.Size
		}
		levelOf = clusterLevels(values, sizes)
	}

	for i, c := range cands {
		lvl := levelOf[c.Size]
		if hint := c.LevelHint(); hint != doctree.LevelNone && lvl != doctree.LevelNone {
			lvl = hint
		}
		if res.Degenerate {
			lvl = doctree.H1
		}
		res.Levels[i] = lvl
	}
	return res
}

// distinctSizes returns the candidate sizes, largest first.
func distinctSizes(cands []Candidate) []float64 {
	seen := make(map[float64]bool)
	var out []float64
	for _, c := range cands {
		if !seen[c.Size] {
			seen[c.Size] = true
			out = append(out, c.Size)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	return out
}

// clusterLevels runs 1-D k-means with k=4 over values and maps every
// distinct size to the level of its cluster's centroid rank. Identical
// sizes always land in the same cluster because assignment is by value.
func clusterLevels(values, distinct []float64) map[float64]doctree.Level {
	centroids := initCentroids(distinct, numLevels)
	assign := make(map[float64]int, len(distinct))

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for _, s := range distinct {
			c := nearest(centroids, s)
			if prev, ok := assign[s]; !ok || prev != c {
				assign[s] = c
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		sums := make([]float64, len(centroids))
		counts := make([]int, len(centroids))
		for _, v := range values {
			c := assign[v]
			sums[c] += v
			counts[c]++
		}
		for c := range centroids {
			if counts[c] > 0 {
				centroids[c] = sums[c] / float64(counts[c])
			}
		}
	}

	// Rank non-empty clusters by centroid, largest first.
	used := make(map[int]bool)
	for _, c := range assign {
		used[c] = true
	}
	order := make([]int, 0, len(used))
	for c := range used {
		order = append(order, c)
	}
	sort.Slice(order, func(i, j int) bool {
		if centroids[order[i]] != centroids[order[j]] {
			return centroids[order[i]] > centroids[order[j]]
		}
		return order[i] < order[j]
	})
	rank := make(map[int]doctree.Level, len(order))
	for r, c := range order {
		if r < numLevels {
			rank[c] = doctree.Level(r + 1)
		}
	}

	levels := make(map[float64]doctree.Level, len(distinct))
	for s, c := range assign {
		levels[s] = rank[c]
	}
	return levels
}

// initCentroids spreads k seeds over the distinct sizes (descending) at
// evenly spaced quantiles.
func initCentroids(distinct []float64, k int) []float64 {
	out := make([]float64, k)
	n := len(distinct)
	for i := 0; i < k; i++ {
		idx := int(math.Round(float64(i) * float64(n-1) / float64(k-1)))
		out[i] = distinct[idx]
	}
	return out
}

// nearest returns the closest centroid; ties go to the lower index, which
// is the larger seed.
func nearest(centroids []float64, v float64) int {
	best, bestD := 0, math.Inf(1)
	for i, c := range centroids {
		if d := math.Abs(v - c); d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// dropOverlaps keeps only the first of candidates that share a page and a
// level and sit at nearly the same vertical position.
func dropOverlaps(cands []Candidate, levels []doctree.Level) ([]Candidate, []doctree.Level) {
	type key struct {
		page  int
		level doctree.Level
	}
	seen := make(map[key][]float64)
	var outC []Candidate
	var outL []doctree.Level
	for i, c := range cands {
		lvl := levels[i]
		if lvl == doctree.LevelNone {
			continue
		}
		k := key{c.Page, lvl}
		dup := false
		for _, y := range seen[k] {
			if math.Abs(y-c.Y) <= 1 {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		seen[k] = append(seen[k], c.Y)
		outC = append(outC, c)
		outL = append(outL, lvl)
	}
	return outC, outL
}
