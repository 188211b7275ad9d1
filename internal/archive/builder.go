// Package archive fetches binaries for selected assets with bounded
// concurrency and bounded retry, and packages them either into one
// in-memory zip archive or into individual files on disk.
package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/HironOficial/wfi/internal/asset"
)

// Defaults for the batch/retry discipline.
const (
	DefaultBatchSize     = 10
	DefaultBatchDelay    = 100 * time.Millisecond
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 500 * time.Millisecond
)

// Config tunes the fetch discipline shared by the Builder and the Saver.
type Config struct {
	BatchSize     int
	BatchDelay    time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	HTTPClient    *http.Client
}

func (c Config) withDefaults(batchSize int) Config {
	if c.BatchSize <= 0 {
		c.BatchSize = batchSize
	}
	if c.BatchDelay < 0 {
		c.BatchDelay = 0
	}
	if c.RetryAttempts == 0 {
		c.RetryAttempts = DefaultRetryAttempts
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = DefaultRetryDelay
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 60 * time.Second}
	}
	return c
}

// Progress reports items attempted so far out of the total. It is called
// once per completed item, success or terminal failure alike.
type Progress func(done, total int)

// entry is one file destined for the output artifact.
type entry struct {
	folder string
	name   string
	data   []byte
}

// Builder packages selected assets into a single zip archive.
type Builder struct {
	cfg Config
	log *slog.Logger
}

func NewBuilder(cfg Config, log *slog.Logger) *Builder {
	return &Builder{cfg: cfg.withDefaults(DefaultBatchSize), log: log}
}

// Build fetches every selected asset and returns the finished archive
// plus the number of assets whose fetch failed after all retries. A
// failed asset is skipped, never aborting the archive. The archive
// finalizes only after every batch has resolved.
func (b *Builder) Build(ctx context.Context, assets []asset.Asset, spec asset.DownloadSpec, onProgress Progress) ([]byte, int, error) {
	items := planItems(assets, spec)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	failed := 0
	write := func(e entry) error {
		w, err := zw.Create(e.folder + "/" + e.name)
		if err != nil {
			return err
		}
		_, err = w.Write(e.data)
		return err
	}

	err := runBatches(ctx, b.cfg, b.log, items, spec, onProgress, func(res itemResult) error {
		if res.failed {
			failed++
		}
		for _, e := range res.entries {
			if err := write(e); err != nil {
				return fmt.Errorf("write %s/%s: %w", e.folder, e.name, err)
			}
		}
		return nil
	})
	if err != nil {
		zw.Close()
		return nil, failed, err
	}

	if err := zw.Close(); err != nil {
		return nil, failed, fmt.Errorf("finalize archive: %w", err)
	}
	return buf.Bytes(), failed, nil
}

type itemResult struct {
	entries []entry
	failed  bool
}

// runBatches processes items in fixed-size batches. Batches run
// sequentially with a small delay in between; items within a batch run
// concurrently. The sink runs in this goroutine only, so the archive has
// a single writer.
func runBatches(ctx context.Context, cfg Config, log *slog.Logger, items []item, spec asset.DownloadSpec, onProgress Progress, sink func(itemResult) error) error {
	total := len(items)
	done := 0

	for start := 0; start < total; start += cfg.BatchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(start+cfg.BatchSize, total)
		batch := items[start:end]

		results := make(chan itemResult, len(batch))
		for _, it := range batch {
			go func(it item) {
				results <- processItem(ctx, cfg, log, it, spec)
			}(it)
		}
		for range batch {
			res := <-results
			done++
			if err := sink(res); err != nil {
				return err
			}
			if onProgress != nil {
				onProgress(done, total)
			}
		}

		if end < total && cfg.BatchDelay > 0 {
			select {
			case <-time.After(cfg.BatchDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// processItem fetches one asset's binary and, when the item carries font
// responsibility, its font artifacts. Failures mark the item failed but
// produce whatever artifacts are still possible.
func processItem(ctx context.Context, cfg Config, log *slog.Logger, it item, spec asset.DownloadSpec) itemResult {
	var res itemResult
	a := it.a

	if it.emitFont {
		res.entries = append(res.entries, fontEntries(ctx, cfg, log, a, spec)...)
	}

	if it.wantBinary {
		data, err := fetchBytes(ctx, cfg.HTTPClient, a.RenderURL, cfg.RetryAttempts, cfg.RetryDelay)
		if err != nil {
			log.Warn("asset fetch failed, skipping", "asset_id", a.ID, "name", a.Name, "error", err)
			res.failed = true
		} else {
			res.entries = append(res.entries, entry{
				folder: folderFor(a, spec),
				name:   fileNameFor(a, spec),
				data:   data,
			})
		}
	}
	return res
}

// fontEntries produces the artifacts for one unique font: the font file
// plus a @font-face stylesheet when the binary is resolvable, or a
// readable font-info file when it is not.
func fontEntries(ctx context.Context, cfg Config, log *slog.Logger, a asset.Asset, spec asset.DownloadSpec) []entry {
	info := a.Font()
	base := spec.NamePrefix + fontBaseName(info)

	if a.FontURL != "" {
		data, err := fetchBytes(ctx, cfg.HTTPClient, a.FontURL, cfg.RetryAttempts, cfg.RetryDelay)
		if err == nil {
			fontFile := base + ".ttf"
			return []entry{
				{folder: "fonts", name: fontFile, data: data},
				{folder: "fonts", name: base + ".css", data: []byte(fontCSS(info, fontFile))},
			}
		}
		log.Warn("font fetch failed, falling back to font info", "family", info.Family, "error", err)
	}
	return []entry{
		{folder: "fonts", name: base + ".txt", data: []byte(fontInfoText(info))},
	}
}
