package outline

import (
	"strings"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
)

// UntitledDocument is the last-resort title.
const UntitledDocument = "untitled"

// ResolveTitle picks the title from page 1: the first run of consecutive
// lines at the largest size, when that size is above body size, otherwise
// the single largest line. An empty page 1 falls back to docName. The
// returned indices are the lines used for the title.
func ResolveTitle(lines []doctree.Line, bodySize float64, docName string) (string, []int) {
	var page1 []int
	maxSize := 0.0
	for i, l := range lines {
		if l.Page != 1 {
			continue
		}
		page1 = append(page1, i)
		if l.FontSize > maxSize {
			maxSize = l.FontSize
		}
	}
	if len(page1) == 0 {
		return FallbackTitle(docName), nil
	}

	if maxSize <= bodySize {
		for _, i := range page1 {
			if lines[i].FontSize == maxSize {
				return lines[i].Text, []int{i}
			}
		}
	}

	var used []int
	var parts []string
	for _, i := range page1 {
		if lines[i].FontSize == maxSize {
			used = append(used, i)
			parts = append(parts, lines[i].Text)
			continue
		}
		if len(used) > 0 {
			break
		}
	}
	return strings.Join(parts, " "), used
}

// FallbackTitle returns docName, or UntitledDocument when it is blank.
func FallbackTitle(docName string) string {
	if t := strings.TrimSpace(docName); t != "" {
		return t
	}
	return UntitledDocument
}
