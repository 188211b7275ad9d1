package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HironOficial/wfi/internal/figma"
	"github.com/HironOficial/wfi/internal/pipeline"
)

// tokenHeader carries the caller's personal access token for the remote
// design-file API.
const tokenHeader = "X-Figma-Token"

func (s *Server) handleLoadProject(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get(tokenHeader)
	if token == "" {
		jsonError(w, "access token is required", http.StatusBadRequest)
		return
	}

	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		jsonError(w, "url is required", http.StatusBadRequest)
		return
	}

	project, err := pipeline.LoadProject(r.Context(), s.cfg.FigmaBaseURL, req.URL, token)
	if err != nil {
		var apiErr *figma.APIError
		if errors.As(err, &apiErr) {
			jsonError(w, apiErr.Message, apiErr.Status)
			return
		}
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	respondJSON(w, http.StatusOK, project)
}
