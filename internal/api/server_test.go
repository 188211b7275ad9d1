package api

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HironOficial/wfi/internal/archive"
	"github.com/HironOficial/wfi/internal/config"
	"github.com/HironOficial/wfi/internal/pipeline"
)

var testLog = slog.New(slog.NewTextHandler(io.Discard, nil))

// stubDesignAPI is a minimal upstream: one file with one page holding a
// text node and a rectangle, plus rendered-image URLs pointing back at
// the stub itself so archive fetches succeed.
func stubDesignAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/v1/files/f1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"name": "Checkout Redesign",
			"lastModified": "2026-08-20T10:00:00Z",
			"document": {"id": "0:0", "name": "Document", "type": "DOCUMENT", "children": [
				{"id": "p1", "name": "Page 1", "type": "CANVAS"}
			]}
		}`))
	})
	mux.HandleFunc("/v1/files/f1/nodes", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"nodes": {"p1": {"document": {
			"id": "p1", "name": "Page 1", "type": "CANVAS", "children": [
				{"id": "1:1", "name": "Title", "type": "TEXT",
				 "style": {"fontFamily": "Inter", "italic": false, "fontSize": 24, "fontWeight": 400}},
				{"id": "1:2", "name": "Card", "type": "RECTANGLE"}
			]
		}}}}`))
	})
	mux.HandleFunc("/v1/images/f1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"images": {
			"1:1": "` + srv.URL + `/render/1-1.png",
			"1:2": "` + srv.URL + `/render/1-2.png"
		}}`))
	})
	mux.HandleFunc("/v1/files/f1/styles", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {"styles": []}}`))
	})
	mux.HandleFunc("/render/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("binary:" + r.URL.Path))
	})
	return srv
}

func newTestServer(t *testing.T, apiKey string) *httptest.Server {
	t.Helper()
	upstream := stubDesignAPI(t)

	cfg := config.Config{
		FigmaBaseURL:    upstream.URL,
		APIKey:          apiKey,
		WorkerCount:     1,
		MaxQueueSize:    4,
		PoolSize:        2,
		ChunkTarget:     10,
		WorkerTimeout:   5 * time.Second,
		FontLookupLimit: 4,
		JobTTL:          time.Hour,
	}

	orch := pipeline.NewOrchestrator(cfg, testLog)
	orch.Start(context.Background())
	t.Cleanup(orch.Stop)

	builder := archive.NewBuilder(archive.Config{
		BatchSize:     10,
		BatchDelay:    time.Millisecond,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, testLog)

	ts := httptest.NewServer(NewServer(orch, builder, testLog, cfg))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("X-Figma-Token", token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, "")
	resp, body := doJSON(t, http.MethodGet, ts.URL+"/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestLoadProjectEndpoint(t *testing.T) {
	ts := newTestServer(t, "")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/projects", "", `{"url": "x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "token is mandatory")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/projects", "tok",
		`{"url": "https://www.figma.com/design/f1/Checkout"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var project struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Pages []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"pages"`
	}
	require.NoError(t, json.Unmarshal(body, &project))
	assert.Equal(t, "f1", project.ID)
	assert.Equal(t, "Checkout Redesign", project.Name)
	require.Len(t, project.Pages, 1)
	assert.Equal(t, "Page 1", project.Pages[0].Name)
}

func TestExtractEndpoint(t *testing.T) {
	ts := newTestServer(t, "")

	tests := []struct {
		name   string
		token  string
		body   string
		status int
	}{
		{"missing token", "", `{"file_id": "f1", "page_ids": ["p1"]}`, http.StatusBadRequest},
		{"missing file id", "tok", `{"page_ids": ["p1"]}`, http.StatusBadRequest},
		{"missing pages", "tok", `{"file_id": "f1"}`, http.StatusBadRequest},
		{"bad kind", "tok", `{"file_id": "f1", "page_ids": ["p1"], "kinds": ["blobs"]}`, http.StatusBadRequest},
		{"bad format", "tok", `{"file_id": "f1", "page_ids": ["p1"], "format": "bmp"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/assets", tt.token, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestExtractAndPoll(t *testing.T) {
	ts := newTestServer(t, "")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/assets", "tok",
		`{"file_id": "f1", "page_ids": ["p1"], "kinds": ["text", "vectors"], "format": "png"}`)
	require.Equal(t, http.StatusAccepted, resp.StatusCode, string(body))

	var accepted struct {
		JobID   string `json:"job_id"`
		PollURL string `json:"poll_url"`
	}
	require.NoError(t, json.Unmarshal(body, &accepted))
	require.NotEmpty(t, accepted.JobID)
	assert.Equal(t, "/api/assets/"+accepted.JobID, accepted.PollURL)

	var snap struct {
		Status string `json:"status"`
		Assets []struct {
			ID   string `json:"id"`
			Kind string `json:"kind"`
		} `json:"assets"`
	}
	deadline := time.After(5 * time.Second)
	for snap.Status != "completed" {
		select {
		case <-deadline:
			t.Fatalf("job stuck in %q", snap.Status)
		case <-time.After(10 * time.Millisecond):
		}
		resp, body = doJSON(t, http.MethodGet, ts.URL+accepted.PollURL, "", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.Unmarshal(body, &snap))
		require.NotEqual(t, "failed", snap.Status, string(body))
	}
	assert.Len(t, snap.Assets, 2)
}

func TestJobStatusNotFound(t *testing.T) {
	ts := newTestServer(t, "")
	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/api/assets/nope", "", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestArchiveEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	upstream := stubDesignAPI(t)

	body := `{"assets": [
		{"id": "1:2", "name": "Card", "kind": "VECTORS", "format": "PNG",
		 "render_url": "` + upstream.URL + `/render/1-2.png"}
	], "spec": {"scale": 1, "quality": 80, "include_in_archive": true}}`

	resp, data := doJSON(t, http.MethodPost, ts.URL+"/api/archive", "", body)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(data))
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	assert.Equal(t, "0", resp.Header.Get("X-Failed-Count"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "wfi-assets-")

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 1)
	assert.Equal(t, "vectors/Card.png", zr.File[0].Name)
}

func TestArchiveEndpointRequiresAssets(t *testing.T) {
	ts := newTestServer(t, "")
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/archive", "", `{"assets": []}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAuthMiddleware(t *testing.T) {
	ts := newTestServer(t, "server-key")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/projects", "tok", `{"url": "x"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	require.NoError(t, err)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode, "health stays public")

	req, err = http.NewRequest(http.MethodPost, ts.URL+"/api/projects", strings.NewReader(`{"url": "https://www.figma.com/design/f1/x"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer server-key")
	req.Header.Set("X-Figma-Token", "tok")
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusOK, resp3.StatusCode)
}
