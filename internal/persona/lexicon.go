package persona

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tanisha290/adobe-teamkt-1b/internal/terms"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

// MinRoleSimilarity is the Dice similarity a role string needs to match a
// lexicon role.
const MinRoleSimilarity = 0.3

// Role is one lexicon entry.
type Role struct {
	Name     string   `yaml:"name"`
	Aliases  []string `yaml:"aliases"`
	Keywords []string `yaml:"keywords"`

	names [][]string // tokenized name and aliases
}

// Lexicon maps professional roles to supplementary keywords. It is never
// modified after loading and is safe for concurrent use.
type Lexicon struct {
	roles []Role
}

type lexiconFile struct {
	Roles []Role `yaml:"roles"`
}

var loadDefault = sync.OnceValues(func() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
})

// DefaultLexicon returns the embedded lexicon, parsed once per process.
func DefaultLexicon() (*Lexicon, error) {
	return loadDefault()
}

// LoadLexicon reads a lexicon from path, or returns the embedded one when
// path is empty.
func LoadLexicon(path string) (*Lexicon, error) {
	if path == "" {
		return DefaultLexicon()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon %s: %w", path, err)
	}
	lex, err := ParseLexicon(data)
	if err != nil {
		return nil, fmt.Errorf("lexicon %s: %w", path, err)
	}
	return lex, nil
}

// ParseLexicon parses a YAML lexicon document.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}
	lex := &Lexicon{roles: make([]Role, 0, len(f.Roles))}
	for i, r := range f.Roles {
		r.Name = strings.TrimSpace(r.Name)
		if r.Name == "" {
			return nil, fmt.Errorf("parse lexicon: role %d has no name", i)
		}
		for _, n := range append([]string{r.Name}, r.Aliases...) {
			if toks := terms.Tokenize(n); len(toks) > 0 {
				r.names = append(r.names, toks)
			}
		}
		lex.roles = append(lex.roles, r)
	}
	return lex, nil
}

// Len returns the number of roles.
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.roles)
}

// Match returns the role whose name or alias is most similar to role by
// token overlap (Dice coefficient). Ties prefer the larger overlap, then
// the earlier role. ok is false when nothing reaches MinRoleSimilarity.
func (l *Lexicon) Match(role string) (match Role, score float64, ok bool) {
	if l == nil {
		return Role{}, 0, false
	}
	query := terms.Tokenize(role)
	if len(query) == 0 {
		return Role{}, 0, false
	}

	bestOverlap := 0
	for _, r := range l.roles {
		for _, name := range r.names {
			overlap := overlapCount(query, name)
			if overlap == 0 {
				continue
			}
			dice := 2 * float64(overlap) / float64(len(dedup(query))+len(dedup(name)))
			if dice > score || (dice == score && overlap > bestOverlap) {
				match, score, bestOverlap = r, dice, overlap
			}
		}
	}
	if score < MinRoleSimilarity {
		return Role{}, score, false
	}
	return match, score, true
}

func overlapCount(a, b []string) int {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	n := 0
	for _, t := range dedup(b) {
		if set[t] {
			n++
		}
	}
	return n
}

func dedup(toks []string) []string {
	seen := make(map[string]bool, len(toks))
	out := toks[:0:0]
	for _, t := range toks {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}
