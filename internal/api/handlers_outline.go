package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/tanisha290/adobe-teamkt-1b/internal/parser"
	"github.com/tanisha290/adobe-teamkt-1b/internal/payload"
	"github.com/tanisha290/adobe-teamkt-1b/internal/pipeline"
)

// handleOutline extracts the title and heading outline of one uploaded
// document synchronously. A document that cannot be parsed still yields a
// payload with a fallback title and an empty outline.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	// Extra 1MB for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !parser.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}
	data, status, err := s.readUpload(file)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}

	res := s.orchestrator.Analyzer().Outline(r.Context(), pipeline.Document{Filename: filename, Data: data})
	if res.Err != nil {
		s.log.Warn("outline degraded", "document", filename, "outcome", res.Outcome, "error", res.Err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Extraction-Outcome", string(res.Outcome))
	if err := payload.WriteJSON(w, res.Tree); err != nil {
		s.log.Error("write outline response", "error", err)
	}
}

// readUpload reads one uploaded part, enforcing MaxUploadBytes. On failure
// it returns the HTTP status to answer with.
func (s *Server) readUpload(f multipart.File) ([]byte, int, error) {
	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return data, http.StatusOK, nil
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
