// Package fontres correlates detected fonts against the file's style
// registry and fetches downloadable font-file URLs. Resolution is best
// effort: a miss is an absent URL, never an error.
package fontres

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/HironOficial/wfi/internal/asset"
	"github.com/HironOficial/wfi/internal/figma"
)

// DefaultLimit bounds concurrent registry lookups.
const DefaultLimit = 10

// Resolver resolves font-file URLs for text assets.
type Resolver struct {
	client *figma.Client
	log    *slog.Logger
	limit  int
}

func NewResolver(client *figma.Client, log *slog.Logger, limit int) *Resolver {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Resolver{client: client, log: log, limit: limit}
}

// Resolve returns a map from asset id to font-file URL for every text
// asset whose font could be matched in the style registry. All lookups
// run concurrently, one per text asset, bounded by the resolver limit.
// Registry failures are logged and yield an empty map.
func (r *Resolver) Resolve(ctx context.Context, fileID string, fonts map[string]asset.FontInfo) map[string]string {
	if len(fonts) == 0 {
		return nil
	}

	styles, err := r.client.GetStyles(ctx, fileID)
	if err != nil {
		r.log.Warn("style registry fetch failed, skipping font resolution", "file_id", fileID, "error", err)
		return nil
	}

	var (
		mu   sync.Mutex
		urls = make(map[string]string)
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)

	for id, info := range fonts {
		id, info := id, info
		g.Go(func() error {
			style, ok := MatchStyle(styles, info)
			if !ok {
				return nil
			}
			fontURL, err := r.client.GetStyleFont(gctx, style.Key)
			if err != nil {
				r.log.Warn("font fetch failed", "style_key", style.Key, "family", info.Family, "error", err)
				return nil
			}
			if fontURL == "" {
				return nil
			}
			mu.Lock()
			urls[id] = fontURL
			mu.Unlock()
			return nil
		})
	}
	g.Wait()
	return urls
}

// MatchStyle finds a registered text style whose free text mentions the
// font. The heuristic requires the family name as a substring and, when
// the descriptor carries them, the style label and numeric weight too.
// Best effort only; no match is a legitimate outcome.
func MatchStyle(styles []figma.StyleMeta, info asset.FontInfo) (figma.StyleMeta, bool) {
	for _, s := range styles {
		if s.StyleType != "" && s.StyleType != "TEXT" {
			continue
		}
		text := strings.ToLower(s.Name + " " + s.Description)
		if !strings.Contains(text, strings.ToLower(info.Family)) {
			continue
		}
		if info.Style != "" && !strings.Contains(text, strings.ToLower(info.Style)) {
			continue
		}
		if info.Weight != 0 && !strings.Contains(text, strconv.Itoa(info.Weight)) {
			continue
		}
		return s, true
	}
	return figma.StyleMeta{}, false
}
