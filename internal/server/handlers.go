package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/hyperjump/sift/internal/models"
	"github.com/hyperjump/sift/internal/storage"
	"go.uber.org/zap"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
	statusRecentRuns = 5
)

type processRequest struct {
	Persona string `validate:"max=200"`
	Task    string `validate:"max=500"`
	TopK    int    `validate:"min=0,max=1000"`
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	req := processRequest{
		Persona: r.FormValue("persona"),
		Task:    r.FormValue("task"),
	}
	if v := r.FormValue("top_k"); v != "" {
		if req.TopK, err = strconv.Atoi(v); err != nil {
			s.respondError(w, http.StatusBadRequest, "top_k must be an integer")
			return
		}
	}
	if fields := s.validateRequest(&req); fields != nil {
		s.respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": fields,
		})
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read file")
		return
	}
	s.logger.Debug("process request",
		zap.String("document", header.Filename),
		zap.Int("bytes", len(content)),
		zap.String("persona", req.Persona),
	)
	job := models.Job{Persona: req.Persona, Task: req.Task, TopK: req.TopK}
	result, err := s.pipeline.ProcessBytes(r.Context(), header.Filename, content, job)
	if err != nil {
		s.logger.Warn("process failed", zap.String("document", header.Filename), zap.Error(err))
		s.respondJSON(w, statusForError(err), map[string]string{
			"error": err.Error(),
			"kind":  models.Classify(err),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// validateRequest returns failing fields mapped to the rule they broke, or nil.
func (s *Server) validateRequest(v any) map[string]string {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": err.Error()}
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return fields
}

// statusClientClosedRequest reports a request abandoned by the client.
const statusClientClosedRequest = 499

// statusForError maps a pipeline error to an HTTP status.
func statusForError(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	case errors.Is(err, models.ErrNoContent),
		errors.Is(err, models.ErrEmptyCorpus),
		errors.Is(err, models.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrModelFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunsLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRunsLimit)
	}
	runs, err := s.storage.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("list runs failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []*models.Run{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	run, err := s.storage.GetRun(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("get run failed", zap.String("run_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	docs, err := s.storage.ListDocuments(r.Context(), id)
	if err != nil {
		s.logger.Error("list documents failed", zap.String("run_id", id), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if docs == nil {
		docs = []*models.DocumentRecord{}
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"run": run, "documents": docs})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := storage.Status(r.Context(), s.storage, statusRecentRuns)
	if err != nil {
		s.logger.Error("status failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
