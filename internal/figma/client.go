package figma

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the production endpoint of the design-file API.
const DefaultBaseURL = "https://api.figma.com"

// Client communicates with the remote design-file API. Authentication is
// a per-request personal access token, so a Client is cheap to construct
// per operation.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// APIError is a non-success response from the remote service.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("design api: status %d: %s", e.Status, e.Message)
}

// GetFile fetches the file summary, including the page list.
func (c *Client) GetFile(ctx context.Context, fileID string) (*FileResponse, error) {
	var out FileResponse
	if err := c.get(ctx, "/v1/files/"+fileID, nil, &out); err != nil {
		return nil, fmt.Errorf("get file %s: %w", fileID, err)
	}
	return &out, nil
}

// GetNodes fetches the document subtrees of the given pages.
func (c *Client) GetNodes(ctx context.Context, fileID string, pageIDs []string) (map[string]PageDocument, error) {
	q := url.Values{"ids": {strings.Join(pageIDs, ",")}}
	var out NodesResponse
	if err := c.get(ctx, "/v1/files/"+fileID+"/nodes", q, &out); err != nil {
		return nil, fmt.Errorf("get nodes for %s: %w", fileID, err)
	}
	return out.Nodes, nil
}

// GetImageURLs asks the service to render the given nodes and returns a
// map from node id to a time-limited download URL. Nodes the service
// could not render are absent from the map.
func (c *Client) GetImageURLs(ctx context.Context, fileID string, nodeIDs []string, format string) (map[string]string, error) {
	q := url.Values{
		"ids":    {strings.Join(nodeIDs, ",")},
		"format": {strings.ToLower(format)},
	}
	var out ImagesResponse
	if err := c.get(ctx, "/v1/images/"+fileID, q, &out); err != nil {
		return nil, fmt.Errorf("get images for %s: %w", fileID, err)
	}
	if out.Err != "" {
		return nil, fmt.Errorf("get images for %s: %s", fileID, out.Err)
	}
	urls := make(map[string]string, len(out.Images))
	for id, u := range out.Images {
		if u != "" {
			urls[id] = u
		}
	}
	return urls, nil
}

// GetStyles fetches the file's style registry.
func (c *Client) GetStyles(ctx context.Context, fileID string) ([]StyleMeta, error) {
	var out StylesResponse
	if err := c.get(ctx, "/v1/files/"+fileID+"/styles", nil, &out); err != nil {
		return nil, fmt.Errorf("get styles for %s: %w", fileID, err)
	}
	return out.Meta.Styles, nil
}

// GetStyleFont fetches one registry entry and returns its downloadable
// font-file URL, or "" when the registry has none.
func (c *Client) GetStyleFont(ctx context.Context, styleKey string) (string, error) {
	var out StyleResponse
	if err := c.get(ctx, "/v1/styles/"+styleKey, nil, &out); err != nil {
		return "", fmt.Errorf("get style %s: %w", styleKey, err)
	}
	return out.Meta.FontURL, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Figma-Token", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// readErrorMessage extracts the service's error message from a failed
// response body, falling back to the raw body.
func readErrorMessage(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, 1024))
	var e struct {
		Err     string `json:"err"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		if e.Message != "" {
			return e.Message
		}
		if e.Err != "" {
			return e.Err
		}
	}
	return strings.TrimSpace(string(body))
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}
