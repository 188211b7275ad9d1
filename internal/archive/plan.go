package archive

import "github.com/HironOficial/wfi/internal/asset"

// item is one unit of download work. Font responsibility is assigned
// up front: for each unique font descriptor exactly one item carries
// emitFont, so no two fetches of the same font ever run, in any order.
type item struct {
	a          asset.Asset
	wantBinary bool
	emitFont   bool
}

// planItems selects and orders the work for a download run. The fold
// over the asset list is the only place dedup state lives; processing
// items afterwards is stateless and order-independent.
func planItems(assets []asset.Asset, spec asset.DownloadSpec) []item {
	wantFonts := spec.TextExportMode != asset.TextAsImage
	seenFonts := make(map[string]struct{})

	items := make([]item, 0, len(assets))
	for _, a := range assets {
		if spec.TextExportMode == asset.TextAsFont && !(a.Kind == asset.KindText && a.HasFont()) {
			continue
		}

		it := item{a: a}
		if a.RenderURL != "" && !(spec.TextExportMode == asset.TextAsFont && a.Kind == asset.KindText) {
			it.wantBinary = true
		}
		if wantFonts && a.Kind == asset.KindText && a.HasFont() {
			key := a.Font().Descriptor().Key()
			if _, dup := seenFonts[key]; !dup {
				seenFonts[key] = struct{}{}
				it.emitFont = true
			}
		}
		if it.wantBinary || it.emitFont {
			items = append(items, it)
		}
	}
	return items
}

// folderFor places an asset's binary in the archive. Placement depends
// only on the asset's own attributes and the spec, never on ordering.
func folderFor(a asset.Asset, spec asset.DownloadSpec) string {
	folder := a.Kind.Folder()
	if spec.GroupByPage && a.PageName != "" {
		folder += "/" + sanitizeName(a.PageName)
	}
	return folder
}

// fileNameFor names an asset's binary inside its folder.
func fileNameFor(a asset.Asset, spec asset.DownloadSpec) string {
	return spec.NamePrefix + sanitizeName(a.Name) + "." + a.Format.Ext()
}
