package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/starman154/syllabus-scanner-server/internal/store"
)

// handleListCourses lists all scanned courses, newest first.
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	courses, err := s.store.ListCourses(r.Context())
	if err != nil {
		jsonError(w, "failed to list courses: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"courses": courses})
}

// handleGetCourse returns one course with its assignments and the rendered
// summary text.
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}

	course, err := s.store.GetCourse(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "course not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load course: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(course)
}

// handleDeleteCourse removes a course and its assignments.
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := courseID(w, r)
	if !ok {
		return
	}

	err := s.store.DeleteCourse(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "course not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete course: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": id})
}

func courseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "courseID"), 10, 64)
	if err != nil || id <= 0 {
		jsonError(w, "invalid course id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
