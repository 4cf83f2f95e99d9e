package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tanisha290/adobe-teamkt-1b/internal/ranking"
)

// TimestampLayout formats processing_timestamp.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Metadata describes the run that produced a collection output.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is one ranked section.
type ExtractedSection struct {
	Document       string `json:"document"`
	SectionTitle   string `json:"section_title"`
	ImportanceRank int    `json:"importance_rank"`
	PageNumber     int    `json:"page_number"`
}

// SubsectionAnalysis is one refined excerpt.
type SubsectionAnalysis struct {
	Document    string `json:"document"`
	RefinedText string `json:"refined_text"`
	PageNumber  int    `json:"page_number"`
}

// CollectionOutput is the result of analyzing a collection.
type CollectionOutput struct {
	Metadata           Metadata             `json:"metadata"`
	ExtractedSections  []ExtractedSection   `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
}

// BuildOutput assembles the collection output. The timestamp is passed in
// so a caller can pin it.
func BuildOutput(in *CollectionInput, sections []ranking.RankedSection, subs []ranking.Subsection, at time.Time) CollectionOutput {
	out := CollectionOutput{
		Metadata: Metadata{
			InputDocuments:      in.Filenames(),
			Persona:             in.Persona.Role,
			JobToBeDone:         in.Job.Task,
			ProcessingTimestamp: at.Format(TimestampLayout),
		},
		ExtractedSections:  make([]ExtractedSection, 0, len(sections)),
		SubsectionAnalysis: make([]SubsectionAnalysis, 0, len(subs)),
	}
	for _, s := range sections {
		out.ExtractedSections = append(out.ExtractedSections, ExtractedSection{
			Document:       s.Section.DocID,
			SectionTitle:   s.Section.Title.Text,
			ImportanceRank: s.Rank,
			PageNumber:     s.Section.Title.Page,
		})
	}
	for _, s := range subs {
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, SubsectionAnalysis{
			Document:    s.DocID,
			RefinedText: s.Text,
			PageNumber:  s.Page,
		})
	}
	return out
}

// WriteJSON encodes v with four-space indentation and without HTML
// escaping.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// WriteFile writes v as JSON to path, creating parent directories.
func WriteFile(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, v); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

var (
	slugInvalid = regexp.MustCompile(`[^a-z0-9-]`)
	slugDashes  = regexp.MustCompile(`-+`)
)

// Slugify converts a string to a path-safe slug of at most 50 characters.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalid.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 50 {
		s = strings.TrimRight(s[:50], "-")
	}
	return s
}

// OutlineFileName is the output name for a document's outline: the input
// file stem with a .json extension.
func OutlineFileName(filename string) string {
	base := filepath.Base(filename)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if strings.TrimSpace(stem) == "" {
		stem = "document"
	}
	return stem + ".json"
}
