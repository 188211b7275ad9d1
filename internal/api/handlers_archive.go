package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/HironOficial/wfi/internal/asset"
)

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Assets []asset.Asset      `json:"assets"`
		Spec   asset.DownloadSpec `json:"spec"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.Assets) == 0 {
		jsonError(w, "assets is required", http.StatusBadRequest)
		return
	}
	if req.Spec.TextExportMode == "" {
		req.Spec.TextExportMode = asset.TextAsImage
	}

	blob, failedCount, err := s.builder.Build(r.Context(), req.Assets, req.Spec, nil)
	if err != nil {
		jsonError(w, "archive failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("wfi-assets-%s.zip", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob)))
	w.Header().Set("X-Failed-Count", strconv.Itoa(failedCount))
	w.Write(blob)
}
