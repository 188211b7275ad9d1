// Package asset defines the domain types shared by the extraction and
// download pipeline: asset kinds, extracted assets, font descriptors and
// download settings.
package asset

import (
	"fmt"
	"strings"
)

// Kind classifies an extracted node. The enumeration is closed; fonts are
// a property of text assets, not a kind of their own.
type Kind string

const (
	KindImage     Kind = "IMAGES"
	KindVector    Kind = "VECTORS"
	KindText      Kind = "TEXT"
	KindComponent Kind = "COMPONENTS"
	KindFrame     Kind = "FRAMES"
)

// AllKinds lists every kind in classifier precedence order.
var AllKinds = []Kind{KindImage, KindVector, KindText, KindComponent, KindFrame}

// ParseKind maps user input to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(s))) {
	case KindImage:
		return KindImage, nil
	case KindVector:
		return KindVector, nil
	case KindText:
		return KindText, nil
	case KindComponent:
		return KindComponent, nil
	case KindFrame:
		return KindFrame, nil
	}
	return "", fmt.Errorf("unknown asset kind %q", s)
}

// Folder returns the archive folder for a kind.
func (k Kind) Folder() string {
	switch k {
	case KindImage:
		return "images"
	case KindVector:
		return "vectors"
	case KindText:
		return "text"
	case KindComponent:
		return "components"
	case KindFrame:
		return "frames"
	}
	return "other"
}

// KindSet is the set of kinds requested for one extraction run.
type KindSet map[Kind]struct{}

func NewKindSet(kinds ...Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

func (s KindSet) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// Format is the raster/vector export format requested from the render
// endpoint.
type Format string

const (
	FormatPNG  Format = "PNG"
	FormatSVG  Format = "SVG"
	FormatJPEG Format = "JPEG"
	FormatPDF  Format = "PDF"
	FormatWEBP Format = "WEBP"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToUpper(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	case FormatJPEG:
		return FormatJPEG, nil
	case FormatPDF:
		return FormatPDF, nil
	case FormatWEBP:
		return FormatWEBP, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Ext returns the lower-case file extension for the format.
func (f Format) Ext() string {
	return strings.ToLower(string(f))
}

// FontDescriptor identifies a font by (family, style, weight). The same
// font appears on many text nodes, so the descriptor is the deduplication
// key for font artifacts.
type FontDescriptor struct {
	Family string `json:"family"`
	Style  string `json:"style"`
	Weight int    `json:"weight"`
}

// Key is the canonical dedup key, e.g. "Inter-Regular-400".
func (d FontDescriptor) Key() string {
	return fmt.Sprintf("%s-%s-%d", d.Family, d.Style, d.Weight)
}

// FontInfo is the typography detail captured from one text node.
type FontInfo struct {
	Family string  `json:"family"`
	Style  string  `json:"style"`
	Weight int     `json:"weight"`
	Size   float64 `json:"size"`
}

func (f FontInfo) Descriptor() FontDescriptor {
	return FontDescriptor{Family: f.Family, Style: f.Style, Weight: f.Weight}
}

// PageRef ties an asset to the page it was extracted from.
type PageRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Asset is one exportable item produced by a full extraction pass. Held
// in memory for the session only, never persisted.
type Asset struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Kind         Kind   `json:"kind"`
	PageID       string `json:"page_id"`
	PageName     string `json:"page_name"`
	RenderURL    string `json:"render_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Format       Format `json:"format"`

	// Font fields are set only for text assets with a detected font.
	FontFamily string  `json:"font_family,omitempty"`
	FontStyle  string  `json:"font_style,omitempty"`
	FontWeight int     `json:"font_weight,omitempty"`
	FontSize   float64 `json:"font_size,omitempty"`
	FontURL    string  `json:"font_url,omitempty"`
}

// HasFont reports whether a font was detected on this asset.
func (a Asset) HasFont() bool {
	return a.FontFamily != ""
}

// Font returns the asset's font info; only meaningful when HasFont.
func (a Asset) Font() FontInfo {
	return FontInfo{Family: a.FontFamily, Style: a.FontStyle, Weight: a.FontWeight, Size: a.FontSize}
}

// TextExportMode selects how text assets are exported.
type TextExportMode string

const (
	TextAsImage TextExportMode = "IMAGE" // rendered image only
	TextAsFont  TextExportMode = "FONT"  // font artifacts only
	TextAsBoth  TextExportMode = "BOTH"  // rendered image plus font artifacts
)

func ParseTextExportMode(s string) (TextExportMode, error) {
	switch TextExportMode(strings.ToUpper(strings.TrimSpace(s))) {
	case TextAsImage:
		return TextAsImage, nil
	case TextAsFont:
		return TextAsFont, nil
	case TextAsBoth:
		return TextAsBoth, nil
	}
	return "", fmt.Errorf("unknown text export mode %q", s)
}

// DownloadSpec is the per-action download configuration. It is a plain
// value with no identity, recreated for every download.
type DownloadSpec struct {
	Scale            float64        `json:"scale"`
	Quality          int            `json:"quality"`
	PreserveLayers   bool           `json:"preserve_layers"`
	IncludeInArchive bool           `json:"include_in_archive"`
	NamePrefix       string         `json:"name_prefix,omitempty"`
	TextExportMode   TextExportMode `json:"text_export_mode"`
	GroupByPage      bool           `json:"group_by_page"`
}

// DefaultDownloadSpec returns the settings a download starts from.
func DefaultDownloadSpec() DownloadSpec {
	return DownloadSpec{
		Scale:            1,
		Quality:          80,
		PreserveLayers:   true,
		IncludeInArchive: true,
		TextExportMode:   TextAsImage,
	}
}
