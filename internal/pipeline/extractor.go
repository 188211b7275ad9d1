package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/HironOficial/wfi/internal/asset"
	"github.com/HironOficial/wfi/internal/extract"
	"github.com/HironOficial/wfi/internal/figma"
	"github.com/HironOficial/wfi/internal/fontres"
	"github.com/HironOficial/wfi/internal/partition"
)

// Hooks observe extraction stages; any field may be nil.
type Hooks struct {
	OnPhase  func(status JobStatus, phase string)
	OnChunks func(done, total int)
}

func (h Hooks) phase(status JobStatus, phase string) {
	if h.OnPhase != nil {
		h.OnPhase(status, phase)
	}
}

// Extractor runs the full load-assets pipeline: tree fetch, partition,
// parallel classification, font resolution and assembly. It is shared by
// the job workers and the CLI.
type Extractor struct {
	BaseURL     string
	Runner      extract.Runner
	Log         *slog.Logger
	ChunkTarget int
	FontLimit   int
}

// Run executes one extraction request. Stage failures (tree fetch, image
// fetch) abort the run; worker failures and font misses do not.
func (e *Extractor) Run(ctx context.Context, req ExtractRequest, hooks Hooks) ([]asset.Asset, error) {
	client := figma.NewClient(e.BaseURL, req.Token)
	defer client.Close()

	hooks.phase(StatusLoading, "fetching document tree")
	nodes, err := client.GetNodes(ctx, req.FileID, req.PageIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch document tree: %w", err)
	}

	hooks.phase(StatusClassifying, "classifying nodes")
	var chunks []partition.Chunk
	for _, pageID := range req.PageIDs {
		page, ok := nodes[pageID]
		if !ok || page.Document == nil {
			continue
		}
		chunks = append(chunks, partition.Page(pageID, page.Document.Name, page.Document, e.ChunkTarget)...)
	}

	engine := extract.NewEngine(e.Runner, e.Log)
	merged := engine.Extract(ctx, chunks, req.Kinds, hooks.OnChunks)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(merged.AssetIDs) == 0 {
		return []asset.Asset{}, nil
	}

	imageURLs, err := client.GetImageURLs(ctx, req.FileID, merged.AssetIDs, string(req.Format))
	if err != nil {
		return nil, fmt.Errorf("fetch rendered images: %w", err)
	}

	hooks.phase(StatusResolvingFonts, "resolving fonts")
	resolver := fontres.NewResolver(client, e.Log, e.FontLimit)
	fontURLs := resolver.Resolve(ctx, req.FileID, merged.Fonts)

	hooks.phase(StatusAssembling, "assembling assets")
	return extract.Assemble(merged, imageURLs, fontURLs, req.Format), nil
}

// LoadProject resolves a project URL to a file id and fetches the
// project summary, including its page list.
func LoadProject(ctx context.Context, baseURL, rawURL, token string) (*figma.Project, error) {
	fileID, err := figma.ExtractFileID(rawURL)
	if err != nil {
		return nil, err
	}
	client := figma.NewClient(baseURL, token)
	defer client.Close()

	file, err := client.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}

	project := &figma.Project{
		ID:           fileID,
		Name:         file.Name,
		LastModified: file.LastModified,
	}
	if file.Document != nil {
		for _, page := range file.Document.Children {
			project.Pages = append(project.Pages, figma.Page{ID: page.ID, Name: page.Name})
		}
	}
	return project, nil
}
