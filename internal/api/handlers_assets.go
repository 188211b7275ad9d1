package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/HironOficial/wfi/internal/asset"
	"github.com/HironOficial/wfi/internal/pipeline"
)

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(tokenHeader)
	if token == "" {
		jsonError(w, "access token is required", http.StatusBadRequest)
		return
	}

	var req struct {
		FileID  string   `json:"file_id"`
		PageIDs []string `json:"page_ids"`
		Kinds   []string `json:"kinds"`
		Format  string   `json:"format"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.FileID == "" {
		jsonError(w, "file_id is required", http.StatusBadRequest)
		return
	}
	if len(req.PageIDs) == 0 {
		jsonError(w, "page_ids is required", http.StatusBadRequest)
		return
	}

	kinds := asset.NewKindSet(asset.AllKinds...)
	if len(req.Kinds) > 0 {
		kinds = make(asset.KindSet, len(req.Kinds))
		for _, raw := range req.Kinds {
			k, err := asset.ParseKind(raw)
			if err != nil {
				jsonError(w, err.Error(), http.StatusBadRequest)
				return
			}
			kinds[k] = struct{}{}
		}
	}

	format := asset.FormatPNG
	if req.Format != "" {
		var err error
		format, err = asset.ParseFormat(req.Format)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	job := pipeline.NewJob(uuid.NewString(), pipeline.ExtractRequest{
		FileID:  req.FileID,
		Token:   token,
		PageIDs: req.PageIDs,
		Kinds:   kinds,
		Format:  format,
	})

	if err := s.orchestrator.Submit(job); err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]any{
		"job_id":   job.ID,
		"status":   job.Snapshot().Status,
		"poll_url": fmt.Sprintf("/api/assets/%s", job.ID),
	})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, job.Snapshot())
}
