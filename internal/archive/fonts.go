package archive

import (
	"fmt"
	"strings"

	"github.com/HironOficial/wfi/internal/asset"
)

// fontBaseName is the artifact base name for one unique font, e.g.
// "Roboto-Regular".
func fontBaseName(f asset.FontInfo) string {
	style := f.Style
	if style == "" {
		style = "Regular"
	}
	return sanitizeName(f.Family + "-" + style)
}

// fontCSS renders the @font-face stylesheet that accompanies a
// downloaded font file.
func fontCSS(f asset.FontInfo, fontFileName string) string {
	style := f.Style
	if style == "" {
		style = "Regular"
	}
	weight := f.Weight
	if weight == 0 {
		weight = 400
	}
	return fmt.Sprintf(`/* Font Information
Family: %s
Style: %s
Weight: %d
*/

@font-face {
  font-family: '%s';
  font-style: %s;
  font-weight: %d;
  src: url('./%s') format('truetype');
}
`, f.Family, style, weight, f.Family, strings.ToLower(style), weight, fontFileName)
}

// fontInfoText is the fallback artifact when no font binary is
// resolvable: a readable summary plus manual-download guidance.
func fontInfoText(f asset.FontInfo) string {
	style := f.Style
	if style == "" {
		style = "Regular"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Font Information\n")
	fmt.Fprintf(&b, "Family: %s\n", f.Family)
	fmt.Fprintf(&b, "Style:  %s\n", style)
	if f.Weight != 0 {
		fmt.Fprintf(&b, "Weight: %d\n", f.Weight)
	}
	if f.Size != 0 {
		fmt.Fprintf(&b, "Size:   %gpx\n", f.Size)
	}
	b.WriteString("\nNo downloadable font file was available for this style.\n")
	b.WriteString("Install the font manually from the foundry or a font service,\n")
	b.WriteString("matching the family, style and weight above.\n")
	return b.String()
}

// sanitizeName makes an asset or page name safe for use as an archive
// path segment.
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer("/", "-", "\\", "-", "\x00", "")
	name = replacer.Replace(name)
	if name == "" {
		return "unnamed"
	}
	return name
}
