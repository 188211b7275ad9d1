package archive

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/HironOficial/wfi/internal/asset"
)

// DefaultSaveBatchSize is smaller than the archive batch because
// individual downloads hit the consumer's simultaneous-download limits.
const DefaultSaveBatchSize = 3

// Saver emits each selected asset as a standalone file instead of
// bundling them. Same retry and font-deduplication policy as the
// Builder.
type Saver struct {
	cfg Config
	log *slog.Logger
}

func NewSaver(cfg Config, log *slog.Logger) *Saver {
	return &Saver{cfg: cfg.withDefaults(DefaultSaveBatchSize), log: log}
}

// Save downloads every selected asset into dir, flat, and returns the
// number of assets whose fetch failed after all retries.
func (s *Saver) Save(ctx context.Context, assets []asset.Asset, spec asset.DownloadSpec, dir string, onProgress Progress) (int, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create output dir: %w", err)
	}
	items := planItems(assets, spec)

	failed := 0
	err := runBatches(ctx, s.cfg, s.log, items, spec, onProgress, func(res itemResult) error {
		if res.failed {
			failed++
		}
		for _, e := range res.entries {
			path := filepath.Join(dir, e.name)
			if err := os.WriteFile(path, e.data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		}
		return nil
	})
	return failed, err
}
