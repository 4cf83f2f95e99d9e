package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLexicon_LoadsOnce(t *testing.T) {
	a, err := DefaultLexicon()
	require.NoError(t, err)
	b, err := DefaultLexicon()
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.Greater(t, a.Len(), 5)
}

func TestLexiconMatch(t *testing.T) {
	lex, err := DefaultLexicon()
	require.NoError(t, err)

	tests := []struct {
		role string
		want string
		ok   bool
	}{
		{"PhD Researcher in Computational Biology", "researcher", true},
		{"Travel Planner", "travel planner", true},
		{"HR professional", "hr professional", true},
		{"Food Contractor", "food contractor", true},
		{"Investment Analyst", "investment analyst", true},
		{"Undergraduate Chemistry Student", "student", true},
		{"Astronaut", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			role, _, ok := lex.Match(tt.role)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, role.Name)
		})
	}
}

func TestLexiconMatch_NilLexicon(t *testing.T) {
	var lex *Lexicon
	_, _, ok := lex.Match("Travel Planner")
	assert.False(t, ok)
}

func TestParseLexicon_RejectsNamelessRole(t *testing.T) {
	_, err := ParseLexicon([]byte("roles:\n  - keywords: [a]\n"))
	assert.Error(t, err)
}

func TestLoadLexicon_FileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
roles:
  - name: astronaut
    keywords: [orbit, launch]
`), 0o644))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)
	role, score, ok := lex.Match("Astronaut")
	require.True(t, ok)
	assert.Equal(t, "astronaut", role.Name)
	assert.InDelta(t, 1.0, score, 1e-9)

	_, err = LoadLexicon(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExtract(t *testing.T) {
	lex, err := DefaultLexicon()
	require.NoError(t, err)

	k := Extract(
		Profile{Role: "PhD Researcher in Computational Biology", Expertise: []string{"graph neural networks"}},
		Job{Task: "Prepare a literature review focusing on methodologies, datasets and benchmarks"},
		lex,
	)

	assert.Equal(t, "researcher", k.MatchedRole)
	assert.InDelta(t, 1.0, k.Persona["researcher"], 1e-9)
	assert.InDelta(t, 1.0, k.Persona["network"], 1e-9)
	assert.InDelta(t, 0.5, k.Persona["methodology"], 1e-9)
	assert.InDelta(t, 1.0, k.Job["dataset"], 1e-9)
	assert.InDelta(t, 1.0, k.Job["benchmark"], 1e-9)
	assert.NotContains(t, k.Job, "and")

	combined := k.Combined()
	assert.InDelta(t, 1.0, combined["dataset"], 1e-9, "job weight wins over lexicon weight")
	assert.Contains(t, k.Query, "Computational Biology")
	assert.Contains(t, k.Query, "benchmarks")
}

func TestExtract_MissingFieldsAreEmpty(t *testing.T) {
	k := Extract(Profile{}, Job{}, nil)
	assert.True(t, k.Empty())
	assert.Empty(t, k.Query)
	assert.NotNil(t, k.Persona)
	assert.NotNil(t, k.Job)
}

func TestTermsSortedAndTotal(t *testing.T) {
	tm := Terms{"b": 1, "a": 0.5}
	assert.Equal(t, []string{"a", "b"}, tm.Sorted())
	assert.InDelta(t, 1.5, tm.Total(), 1e-9)
}
