package figma

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClient_GetFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/files/abc123", r.URL.Path)
		require.Equal(t, "secret-token", r.Header.Get("X-Figma-Token"))
		w.Write([]byte(`{
			"name": "My File",
			"lastModified": "2025-06-01T10:00:00Z",
			"document": {
				"id": "0:0",
				"name": "Document",
				"type": "DOCUMENT",
				"children": [
					{"id": "1:1", "name": "Page 1", "type": "CANVAS"},
					{"id": "1:2", "name": "Page 2", "type": "CANVAS"}
				]
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	file, err := c.GetFile(context.Background(), "abc123")
	require.NoError(t, err)
	require.Equal(t, "My File", file.Name)
	require.Len(t, file.Document.Children, 2)
	require.Equal(t, "Page 1", file.Document.Children[0].Name)
}

func TestClient_GetNodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/files/abc123/nodes", r.URL.Path)
		require.Equal(t, "1:1,1:2", r.URL.Query().Get("ids"))
		w.Write([]byte(`{
			"nodes": {
				"1:1": {"document": {"id": "1:1", "name": "Page 1", "type": "CANVAS", "children": [
					{"id": "2:1", "name": "Hero", "type": "FRAME"}
				]}},
				"1:2": {"document": {"id": "1:2", "name": "Page 2", "type": "CANVAS"}}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	nodes, err := c.GetNodes(context.Background(), "abc123", []string{"1:1", "1:2"})
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	require.Equal(t, "Hero", nodes["1:1"].Document.Children[0].Name)
}

func TestClient_GetImageURLs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/images/abc123", r.URL.Path)
		require.Equal(t, "svg", r.URL.Query().Get("format"))
		w.Write([]byte(`{"err": "", "images": {"2:1": "https://cdn.example/2-1.svg", "2:2": ""}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	urls, err := c.GetImageURLs(context.Background(), "abc123", []string{"2:1", "2:2"}, "SVG")
	require.NoError(t, err)
	// Nodes the service could not render are dropped.
	require.Equal(t, map[string]string{"2:1": "https://cdn.example/2-1.svg"}, urls)
}

func TestClient_GetStyles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/files/abc123/styles", r.URL.Path)
		w.Write([]byte(`{"meta": {"styles": [
			{"key": "s1", "name": "Heading", "style_type": "TEXT", "description": "Inter Regular 400"}
		]}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	styles, err := c.GetStyles(context.Background(), "abc123")
	require.NoError(t, err)
	require.Len(t, styles, 1)
	require.Equal(t, "s1", styles[0].Key)
}

func TestClient_ErrorStatusSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "Invalid token"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad")
	_, err := c.GetFile(context.Background(), "abc123")
	require.Error(t, err)
	require.Contains(t, err.Error(), "status 403")
	require.Contains(t, err.Error(), "Invalid token")
}

func TestClient_ImagesErrField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"err": "rate limited", "images": {}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.GetImageURLs(context.Background(), "abc123", []string{"2:1"}, "PNG")
	require.Error(t, err)
	require.Contains(t, err.Error(), "rate limited")
}
