// Package extract runs the node classifier over partitioned page trees
// with bounded concurrency and folds the per-chunk results into one
// merged classification.
package extract

import (
	"context"
	"log/slog"

	"github.com/HironOficial/wfi/internal/asset"
	"github.com/HironOficial/wfi/internal/classify"
	"github.com/HironOficial/wfi/internal/partition"
)

// Engine fans chunks out across a Runner and merges the results.
type Engine struct {
	runner Runner
	log    *slog.Logger
}

func NewEngine(r Runner, log *slog.Logger) *Engine {
	return &Engine{runner: r, log: log}
}

type chunkResult struct {
	chunk partition.Chunk
	res   classify.Result
}

// Extract classifies every chunk concurrently and returns the merged
// classification. Chunk results arrive in completion order; the merged
// asset *set* is invariant across runs because classification is pure and
// ids are unique.
//
// A runner failure (timeout, crash) is never surfaced: the chunk is
// silently reclassified synchronously in this goroutine's fan-in path,
// with the identical walk, so extraction always completes once the tree
// fetch has succeeded.
func (e *Engine) Extract(ctx context.Context, chunks []partition.Chunk, kinds asset.KindSet, onProgress func(done, total int)) Merged {
	results := make(chan chunkResult, len(chunks))

	for _, c := range chunks {
		go func(c partition.Chunk) {
			res, err := e.runner.Run(ctx, Task{Root: c.Root, Kinds: kinds})
			if err != nil {
				e.log.Debug("worker failed, reprocessing chunk synchronously",
					"page_id", c.PageID, "error", err)
				res = classify.Tree(c.Root, kinds)
			}
			results <- chunkResult{chunk: c, res: res}
		}(c)
	}

	merged := NewMerged()
	for done := 1; done <= len(chunks); done++ {
		r := <-results
		merged = Merge(merged, r.chunk, r.res)
		if onProgress != nil {
			onProgress(done, len(chunks))
		}
	}
	return merged
}
