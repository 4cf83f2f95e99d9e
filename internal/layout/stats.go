package layout

import (
	"math"
	"sort"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

// BodySize returns the modal rounded font size by line count. Ties resolve
// to the smaller size. Returns 0 for no lines.
func BodySize(lines []doctree.Line) float64 {
	counts := make(map[float64]int)
	for _, l := range lines {
		counts[l.FontSize]++
	}
	best, bestN := 0.0, 0
	for size, n := range counts {
		if n > bestN || (n == bestN && size < best) {
			best, bestN = size, n
		}
	}
	return best
}

// DistinctSizes returns the distinct rounded sizes of lines, largest first.
func DistinctSizes(lines []doctree.Line) []float64 {
	seen := make(map[float64]bool)
	var sizes []float64
	for _, l := range lines {
		if !seen[l.FontSize] {
			seen[l.FontSize] = true
			sizes = append(sizes, l.FontSize)
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(sizes)))
	return sizes
}

// PageCount returns the highest page number seen.
func PageCount(lines []doctree.Line) int {
	n := 0
	for _, l := range lines {
		if l.Page > n {
			n = l.Page
		}
	}
	return n
}

// minMarginLines is the number of body lines a page needs before its left
// margin is trusted.
const minMarginLines = 3

// PageMargins returns the modal left edge of body-size lines per page.
// Pages with too few body lines are absent from the map.
func PageMargins(lines []doctree.Line, bodySize float64) map[int]float64 {
	perPage := make(map[int]map[float64]int)
	totals := make(map[int]int)
	for _, l := range lines {
		if l.FontSize != bodySize {
			continue
		}
		x := math.Round(l.X)
		if perPage[l.Page] == nil {
			perPage[l.Page] = make(map[float64]int)
		}
		perPage[l.Page][x]++
		totals[l.Page]++
	}

	margins := make(map[int]float64, len(perPage))
	for page, xs := range perPage {
		if totals[page] < minMarginLines {
			continue
		}
		best, bestN := 0.0, 0
		for x, n := range xs {
			if n > bestN || (n == bestN && x < best) {
				best, bestN = x, n
			}
		}
		margins[page] = best
	}
	return margins
}
