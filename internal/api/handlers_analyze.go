package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tanisha290/adobe-teamkt-1b/internal/parser"
	"github.com/tanisha290/adobe-teamkt-1b/internal/payload"
	"github.com/tanisha290/adobe-teamkt-1b/internal/pipeline"
)

// handleAnalyze accepts a collection input (form field or file part
// "input") and one "files" part per document it names, and queues an
// analysis job.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes*10+10*1024*1024)

	if err := r.ParseMultipartForm(64 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	in, err := s.collectionInput(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	uploads := make(map[string][]byte)
	for _, fh := range r.MultipartForm.File["files"] {
		filename := sanitizeFilename(fh.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return
		}
		f, err := fh.Open()
		if err != nil {
			jsonError(w, "failed to open file "+filename, http.StatusBadRequest)
			return
		}
		data, status, err := s.readUpload(f)
		f.Close()
		if err != nil {
			jsonError(w, fmt.Sprintf("%s: %s", filename, err), status)
			return
		}
		uploads[filename] = data
	}

	docs := make([]pipeline.Document, 0, len(in.Documents))
	var missing []string
	for _, ref := range in.Documents {
		data, ok := uploads[ref.Filename]
		if !ok {
			missing = append(missing, ref.Filename)
			continue
		}
		docs = append(docs, pipeline.Document{Filename: ref.Filename, Data: data})
	}
	if len(missing) > 0 {
		jsonError(w, "missing uploaded files: "+strings.Join(missing, ", "), http.StatusBadRequest)
		return
	}

	job := pipeline.NewJob(in, docs)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":     job.ID,
		"status":     pipeline.StatusQueued,
		"poll_url":   fmt.Sprintf("/api/analyze/%s/status", job.ID),
		"result_url": fmt.Sprintf("/api/analyze/%s/result", job.ID),
	})
}

func (s *Server) collectionInput(r *http.Request) (*payload.CollectionInput, error) {
	raw := r.FormValue("input")
	if raw == "" {
		f, _, err := r.FormFile("input")
		if err != nil {
			return nil, fmt.Errorf("input is required")
		}
		defer f.Close()
		return payload.DecodeInput(f)
	}
	return payload.DecodeInput(strings.NewReader(raw))
}

func (s *Server) handleAnalyzeStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

// handleAnalyzeResult returns the collection payload of a finished job.
func (s *Server) handleAnalyzeResult(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	snap := job.Snapshot()
	if !snap.Status.Done() {
		jsonError(w, fmt.Sprintf("job is %s", snap.Status), http.StatusConflict)
		return
	}
	out := job.Result()
	if out == nil {
		jsonError(w, "job failed: "+strings.Join(snap.Progress.Errors, "; "), http.StatusUnprocessableEntity)
		return
	}

	name := payload.Slugify(snap.Persona + " " + snap.Task)
	if name == "" {
		name = "collection"
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, name))
	if err := payload.WriteJSON(w, out); err != nil {
		s.log.Error("write result response", "job_id", snap.ID, "error", err)
	}
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"jobs":        s.orchestrator.Jobs(),
		"queue_depth": s.orchestrator.QueueDepth(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
