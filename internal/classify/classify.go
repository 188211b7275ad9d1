// Package classify maps document-tree nodes to asset kinds. Classification
// is a pure function of a node's type and geometry hints, never of its
// position in the tree, which makes it safe to run from any number of
// goroutines.
package classify

import (
	"github.com/HironOficial/wfi/internal/asset"
	"github.com/HironOficial/wfi/internal/figma"
)

// vectorTypes is the fixed structural-shape set treated as vector content.
var vectorTypes = map[string]struct{}{
	"VECTOR":          {},
	"LINE":            {},
	"REGULAR_POLYGON": {},
	"POLYGON":         {},
	"STAR":            {},
	"ELLIPSE":         {},
	"RECTANGLE":       {},
}

var componentTypes = map[string]struct{}{
	"COMPONENT":     {},
	"COMPONENT_SET": {},
	"INSTANCE":      {},
}

var frameTypes = map[string]struct{}{
	"FRAME":   {},
	"GROUP":   {},
	"SECTION": {},
}

// Match is the classification of a single node.
type Match struct {
	OK   bool
	Kind asset.Kind
	Font *asset.FontInfo
}

// Node classifies one node against the requested kinds. A node may satisfy
// several predicates; exactly one kind is assigned, by precedence
// Image > Vector > Text > Component > Frame. Nodes without an id never
// match.
func Node(n *figma.Node, requested asset.KindSet) Match {
	if n == nil || n.ID == "" {
		return Match{}
	}

	if requested.Has(asset.KindImage) && n.Type == "IMAGE" {
		return Match{OK: true, Kind: asset.KindImage}
	}

	if requested.Has(asset.KindVector) && isVector(n) {
		return Match{OK: true, Kind: asset.KindVector}
	}

	if requested.Has(asset.KindText) && n.Type == "TEXT" {
		m := Match{OK: true, Kind: asset.KindText}
		if n.Style != nil && n.Style.FontFamily != "" {
			style := "Regular"
			if n.Style.Italic {
				style = "Italic"
			}
			m.Font = &asset.FontInfo{
				Family: n.Style.FontFamily,
				Style:  style,
				Weight: int(n.Style.FontWeight),
				Size:   n.Style.FontSize,
			}
		}
		return m
	}

	if requested.Has(asset.KindComponent) {
		if _, ok := componentTypes[n.Type]; ok {
			return Match{OK: true, Kind: asset.KindComponent}
		}
	}

	if requested.Has(asset.KindFrame) {
		if _, ok := frameTypes[n.Type]; ok {
			return Match{OK: true, Kind: asset.KindFrame}
		}
	}

	return Match{}
}

// isVector covers nodes with a vector-family type as well as nodes whose
// nominal type hides vector content but whose geometry reveals it.
func isVector(n *figma.Node) bool {
	if _, ok := vectorTypes[n.Type]; ok {
		return true
	}
	if n.GeometryType == "VECTOR" {
		return true
	}
	return len(n.VectorPaths) > 0 || len(n.VectorNetwork) > 0
}

// Result accumulates the classification of one subtree. Keys are node ids,
// which the source guarantees globally unique, so results from disjoint
// subtrees merge without collisions.
type Result struct {
	AssetIDs    []string
	Names       map[string]string
	Kinds       map[string]asset.Kind
	Fonts       map[string]asset.FontInfo
	UniqueFonts map[string]asset.FontDescriptor
}

func newResult() Result {
	return Result{
		Names:       make(map[string]string),
		Kinds:       make(map[string]asset.Kind),
		Fonts:       make(map[string]asset.FontInfo),
		UniqueFonts: make(map[string]asset.FontDescriptor),
	}
}

// Tree classifies every node of the subtree rooted at root, depth-first
// pre-order. Both the worker-pool path and the synchronous fallback call
// this same function, so the two paths cannot diverge.
func Tree(root *figma.Node, requested asset.KindSet) Result {
	res := newResult()
	walk(root, requested, &res)
	return res
}

func walk(n *figma.Node, requested asset.KindSet, res *Result) {
	if n == nil {
		return
	}
	if m := Node(n, requested); m.OK {
		res.AssetIDs = append(res.AssetIDs, n.ID)
		name := n.Name
		if name == "" {
			name = "Asset " + n.ID
		}
		res.Names[n.ID] = name
		res.Kinds[n.ID] = m.Kind
		if m.Font != nil {
			res.Fonts[n.ID] = *m.Font
			d := m.Font.Descriptor()
			res.UniqueFonts[d.Key()] = d
		}
	}
	for _, child := range n.Children {
		walk(child, requested, res)
	}
}
