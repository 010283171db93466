package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/starman154/syllabus-scanner-server/internal/parser"
	"github.com/starman154/syllabus-scanner-server/internal/pipeline"
	"github.com/starman154/syllabus-scanner-server/internal/store"
)

// handleUpload accepts a syllabus file. By default it runs through the
// in-process pipeline; with defer=true it is spooled to disk and enqueued
// in the jobs table for the worker binary.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Limit total request size, with 1MB of slack for form overhead.
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
	if !parser.IsSupportedUpload(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	if r.FormValue("defer") == "true" {
		s.enqueueDeferred(w, r, filename, data)
		return
	}

	job := pipeline.NewJob(filename, data)
	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"status":   job.Status,
		"poll_url": fmt.Sprintf("/api/syllabus/%s/status", job.ID),
	})
}

// enqueueDeferred spools the upload to disk and records a queued job for
// the worker binary to claim.
func (s *Server) enqueueDeferred(w http.ResponseWriter, r *http.Request, filename string, data []byte) {
	if err := os.MkdirAll(s.cfg.UploadDir, 0o750); err != nil {
		jsonError(w, "upload spool unavailable", http.StatusInternalServerError)
		return
	}
	spoolPath := filepath.Join(s.cfg.UploadDir, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
	if err := os.WriteFile(spoolPath, data, 0o600); err != nil {
		s.log.Error("spool write failed", "path", spoolPath, "error", err)
		jsonError(w, "failed to store upload", http.StatusInternalServerError)
		return
	}

	jobID, err := s.store.EnqueueJob(r.Context(), filename, spoolPath)
	if err != nil {
		s.log.Error("enqueue failed", "error", err)
		_ = os.Remove(spoolPath)
		jsonError(w, "failed to enqueue job", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   jobID,
		"status":   store.JobQueued,
		"deferred": true,
		"poll_url": fmt.Sprintf("/api/syllabus/%s/status", jobID),
	})
}

// handleJobStatus reports on either variant of job: in-memory first, then
// the jobs table for deferred work.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	if job := s.orchestrator.GetJob(jobID); job != nil {
		snap := job.Snapshot()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snap)
		return
	}

	dbJob, err := s.store.GetJob(r.Context(), jobID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load job: "+err.Error(), http.StatusInternalServerError)
		return
	}

	resp := map[string]any{
		"job_id":     dbJob.ID,
		"filename":   dbJob.Filename,
		"status":     dbJob.Status,
		"attempts":   dbJob.Attempts,
		"created_at": dbJob.CreatedAt,
		"updated_at": dbJob.UpdatedAt,
	}
	if dbJob.Error != "" {
		resp["error"] = dbJob.Error
	}
	if dbJob.CourseID.Valid {
		resp["course_id"] = dbJob.CourseID.Int64
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
