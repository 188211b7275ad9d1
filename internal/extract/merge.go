package extract

import (
	"github.com/HironOficial/wfi/internal/asset"
	"github.com/HironOficial/wfi/internal/classify"
	"github.com/HironOficial/wfi/internal/partition"
)

// Merged is the union of all per-chunk classification results for one
// extraction run. Asset ids are globally unique, so map unions cannot
// collide and the merge is commutative.
type Merged struct {
	AssetIDs    []string
	Names       map[string]string
	Kinds       map[string]asset.Kind
	Pages       map[string]asset.PageRef
	Fonts       map[string]asset.FontInfo
	UniqueFonts map[string]asset.FontDescriptor
}

func NewMerged() Merged {
	return Merged{
		Names:       make(map[string]string),
		Kinds:       make(map[string]asset.Kind),
		Pages:       make(map[string]asset.PageRef),
		Fonts:       make(map[string]asset.FontInfo),
		UniqueFonts: make(map[string]asset.FontDescriptor),
	}
}

// Merge folds one chunk result into the accumulator. Deduplication state
// lives in the accumulator itself rather than in traversal side effects,
// so the fold is a pure reduction over completed sub-results.
func Merge(acc Merged, chunk partition.Chunk, res classify.Result) Merged {
	acc.AssetIDs = append(acc.AssetIDs, res.AssetIDs...)
	for id, name := range res.Names {
		acc.Names[id] = name
		acc.Pages[id] = asset.PageRef{ID: chunk.PageID, Name: chunk.PageName}
	}
	for id, k := range res.Kinds {
		acc.Kinds[id] = k
	}
	for id, f := range res.Fonts {
		acc.Fonts[id] = f
	}
	for key, d := range res.UniqueFonts {
		acc.UniqueFonts[key] = d
	}
	return acc
}
