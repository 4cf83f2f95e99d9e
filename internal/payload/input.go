// Package payload defines the stable JSON boundary: the collection input,
// the per-document outline payload and the collection output.
package payload

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tanisha290/adobe-teamkt-1b/internal/persona"
)

// InputFileName is the collection input file looked for in collection
// directories.
const InputFileName = "challenge1b_input.json"

// OutputFileName is the collection output written next to the input.
const OutputFileName = "challenge1b_output.json"

// DocumentsDir holds a collection's PDFs, relative to its input file.
const DocumentsDir = "PDFs"

// ChallengeInfo is descriptive metadata carried through from the input.
type ChallengeInfo struct {
	ChallengeID  string `json:"challenge_id,omitempty"`
	TestCaseName string `json:"test_case_name,omitempty"`
	Description  string `json:"description,omitempty"`
}

// DocumentRef names one document of a collection.
type DocumentRef struct {
	Filename string `json:"filename" validate:"required"`
	Title    string `json:"title,omitempty"`
}

// CollectionInput is the request to analyze a document collection.
type CollectionInput struct {
	ChallengeInfo ChallengeInfo `json:"challenge_info"`
	Documents     []DocumentRef `json:"documents" validate:"required,min=1,dive"`
	Persona       Persona       `json:"persona"`
	Job           Job           `json:"job_to_be_done"`
}

// Persona accepts either {"role": ..., "expertise": [...]} or a bare role
// string.
type Persona persona.Profile

func (p *Persona) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*p = Persona{Role: s}
		return nil
	}
	var prof persona.Profile
	if err := json.Unmarshal(b, &prof); err != nil {
		return fmt.Errorf("persona: %w", err)
	}
	*p = Persona(prof)
	return nil
}

// Job accepts either {"task": ..., "requirements": [...]} or a bare task
// string.
type Job persona.Job

func (j *Job) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*j = Job{Task: s}
		return nil
	}
	var job persona.Job
	if err := json.Unmarshal(b, &job); err != nil {
		return fmt.Errorf("job_to_be_done: %w", err)
	}
	*j = Job(job)
	return nil
}

// Validate checks the input shape. Missing persona or job text is not an
// error; it yields empty term sets downstream.
func (in *CollectionInput) Validate() error {
	validate := validator.New()
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("invalid collection input: %s", validationMessage(err))
	}
	for i, d := range in.Documents {
		if strings.TrimSpace(d.Filename) == "" {
			return fmt.Errorf("invalid collection input: documents[%d].filename is blank", i)
		}
		if filepath.Base(d.Filename) != d.Filename {
			return fmt.Errorf("invalid collection input: documents[%d].filename %q must not contain a path", i, d.Filename)
		}
	}
	return nil
}

// Filenames returns the document filenames in input order.
func (in *CollectionInput) Filenames() []string {
	out := make([]string, len(in.Documents))
	for i, d := range in.Documents {
		out[i] = d.Filename
	}
	return out
}

func validationMessage(err error) string {
	if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
		return fmt.Sprintf("%s failed %q", ve[0].Namespace(), ve[0].Tag())
	}
	return err.Error()
}

// DecodeInput parses and validates a collection input.
func DecodeInput(r io.Reader) (*CollectionInput, error) {
	var in CollectionInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode collection input: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return &in, nil
}

// ReadInput loads a collection input file.
func ReadInput(path string) (*CollectionInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open collection input: %w", err)
	}
	defer f.Close()
	in, err := DecodeInput(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// DocumentPaths resolves the input's documents against the PDFs directory
// next to the input file.
func DocumentPaths(inputPath string, in *CollectionInput) []string {
	dir := filepath.Join(filepath.Dir(inputPath), DocumentsDir)
	out := make([]string, len(in.Documents))
	for i, d := range in.Documents {
		out[i] = filepath.Join(dir, d.Filename)
	}
	return out
}
