package figma

import "encoding/json"

// Node is one element of a design file's document tree. The tree is owned
// by the remote service and never mutated here; only the fields the
// extraction pipeline inspects are decoded.
type Node struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Children []*Node `json:"children,omitempty"`

	// Vector geometry hints. Some nodes carry vector content without a
	// vector-family type; these fields reveal it.
	GeometryType  string                     `json:"geometryType,omitempty"`
	VectorPaths   []json.RawMessage          `json:"vectorPaths,omitempty"`
	VectorNetwork map[string]json.RawMessage `json:"vectorNetwork,omitempty"`

	Style *TypeStyle `json:"style,omitempty"`
}

// TypeStyle is the typography block attached to TEXT nodes.
type TypeStyle struct {
	FontFamily string  `json:"fontFamily"`
	Italic     bool    `json:"italic"`
	FontSize   float64 `json:"fontSize"`
	FontWeight float64 `json:"fontWeight"`
}

// Page is a top-level page of a design file.
type Page struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project is the summary returned after loading a file.
type Project struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	LastModified string `json:"last_modified"`
	Pages        []Page `json:"pages"`
}

// FileResponse is the body of GET /v1/files/{fileID}.
type FileResponse struct {
	Name         string `json:"name"`
	LastModified string `json:"lastModified"`
	Document     *Node  `json:"document"`
}

// PageDocument wraps one page's subtree in a nodes response.
type PageDocument struct {
	Document *Node `json:"document"`
}

// NodesResponse is the body of GET /v1/files/{fileID}/nodes.
type NodesResponse struct {
	Nodes map[string]PageDocument `json:"nodes"`
}

// ImagesResponse is the body of GET /v1/images/{fileID}. URLs are
// time-limited; a null entry means the node could not be rendered.
type ImagesResponse struct {
	Err    string            `json:"err,omitempty"`
	Images map[string]string `json:"images"`
}

// StyleMeta is one entry of the file's style registry.
type StyleMeta struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	StyleType   string `json:"style_type"`
	Description string `json:"description"`
}

// StylesResponse is the body of GET /v1/files/{fileID}/styles.
type StylesResponse struct {
	Meta struct {
		Styles []StyleMeta `json:"styles"`
	} `json:"meta"`
}

// StyleResponse is the body of GET /v1/styles/{styleKey}. FontURL is
// empty when the registry has no downloadable font file for the style.
type StyleResponse struct {
	Meta struct {
		Key         string `json:"key"`
		Name        string `json:"name"`
		Description string `json:"description"`
		FontURL     string `json:"font_url"`
	} `json:"meta"`
}
