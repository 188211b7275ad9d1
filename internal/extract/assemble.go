package extract

import "github.com/HironOficial/wfi/internal/asset"

// Assemble joins the merged classification with rendered-image URLs and
// resolved font URLs into the final asset list, in extraction order.
//
// An asset's render URL is the rendered image when the service produced
// one, else the resolved font URL, else empty. Assets with neither are
// still included: a missing render is legitimate for some node types and
// is surfaced downstream, not filtered here.
func Assemble(m Merged, imageURLs, fontURLs map[string]string, format asset.Format) []asset.Asset {
	assets := make([]asset.Asset, 0, len(m.AssetIDs))
	for _, id := range m.AssetIDs {
		page := m.Pages[id]
		a := asset.Asset{
			ID:       id,
			Name:     m.Names[id],
			Kind:     m.Kinds[id],
			PageID:   page.ID,
			PageName: page.Name,
			Format:   format,
		}
		if f, ok := m.Fonts[id]; ok {
			a.FontFamily = f.Family
			a.FontStyle = f.Style
			a.FontWeight = f.Weight
			a.FontSize = f.Size
			a.FontURL = fontURLs[id]
		}
		if u, ok := imageURLs[id]; ok {
			a.RenderURL = u
			a.ThumbnailURL = u
		} else {
			a.RenderURL = a.FontURL
		}
		assets = append(assets, a)
	}
	return assets
}
