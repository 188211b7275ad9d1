package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HironOficial/wfi/internal/archive"
	"github.com/HironOficial/wfi/internal/asset"
	"github.com/HironOficial/wfi/internal/config"
	"github.com/HironOficial/wfi/internal/extract"
	"github.com/HironOficial/wfi/internal/figma"
	"github.com/HironOficial/wfi/internal/pipeline"
)

var (
	flagToken        string
	flagPages        []string
	flagKinds        []string
	flagFormat       string
	flagOut          string
	flagIndividual   bool
	flagPrefix       string
	flagFilterPrefix string
	flagTextMode     string
	flagGroupPages   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <project-url>",
	Short: "Extract assets from a design file and download them",
	Long: `Extract loads the file's pages, classifies every node of the selected
pages into asset kinds, resolves rendered-image and font URLs, and
downloads the result.

Examples:
  wfi extract https://www.figma.com/file/abc123/My-File --token $FIGMA_TOKEN
  wfi extract https://www.figma.com/design/abc123 --kinds vectors,text --format svg
  wfi extract https://www.figma.com/file/abc123 --individual --out ./assets`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&flagToken, "token", "", "Personal access token (default: FIGMA_TOKEN env)")
	extractCmd.Flags().StringSliceVar(&flagPages, "pages", nil, "Page names or ids to extract (default: all pages)")
	extractCmd.Flags().StringSliceVar(&flagKinds, "kinds", nil, "Asset kinds: images,vectors,text,components,frames (default: all)")
	extractCmd.Flags().StringVar(&flagFormat, "format", "PNG", "Export format: png, svg, jpeg, pdf, webp")
	extractCmd.Flags().StringVar(&flagOut, "out", ".", "Output directory")
	extractCmd.Flags().BoolVar(&flagIndividual, "individual", false, "Write one file per asset instead of a zip archive")
	extractCmd.Flags().StringVar(&flagPrefix, "prefix", "", "File name prefix")
	extractCmd.Flags().StringVar(&flagFilterPrefix, "filter-prefix", "", "Download only assets whose name starts with this prefix")
	extractCmd.Flags().StringVar(&flagTextMode, "text-mode", "image", "Text export mode: image, font, both")
	extractCmd.Flags().BoolVar(&flagGroupPages, "group-pages", false, "Group archive folders by page")
}

func runExtract(cmd *cobra.Command, args []string) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	cfg := config.Load()
	ctx := cmd.Context()

	token := flagToken
	if token == "" {
		token = os.Getenv("FIGMA_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("an access token is required: pass --token or set FIGMA_TOKEN")
	}

	format, err := asset.ParseFormat(flagFormat)
	if err != nil {
		return err
	}
	textMode, err := asset.ParseTextExportMode(flagTextMode)
	if err != nil {
		return err
	}
	kinds := asset.NewKindSet(asset.AllKinds...)
	if len(flagKinds) > 0 {
		kinds = make(asset.KindSet, len(flagKinds))
		for _, raw := range flagKinds {
			k, err := asset.ParseKind(raw)
			if err != nil {
				return err
			}
			kinds[k] = struct{}{}
		}
	}

	project, err := pipeline.LoadProject(ctx, cfg.FigmaBaseURL, args[0], token)
	if err != nil {
		return err
	}
	log.Info("project loaded", "name", project.Name, "pages", len(project.Pages))

	pageIDs := selectPages(project.Pages, flagPages)
	if len(pageIDs) == 0 {
		return fmt.Errorf("no pages match %v", flagPages)
	}

	pool := extract.NewPool(cfg.PoolSize, cfg.WorkerTimeout)
	defer pool.Close()

	extractor := &pipeline.Extractor{
		BaseURL:     cfg.FigmaBaseURL,
		Runner:      pool,
		Log:         log,
		ChunkTarget: cfg.ChunkTarget,
		FontLimit:   cfg.FontLookupLimit,
	}

	started := time.Now()
	assets, err := extractor.Run(ctx, pipeline.ExtractRequest{
		FileID:  project.ID,
		Token:   token,
		PageIDs: pageIDs,
		Kinds:   kinds,
		Format:  format,
	}, pipeline.Hooks{
		OnPhase: func(_ pipeline.JobStatus, phase string) { log.Info(phase) },
	})
	if err != nil {
		return err
	}
	log.Info("extraction complete", "assets", len(assets), "took", time.Since(started).Round(time.Millisecond))

	if flagFilterPrefix != "" {
		assets = filterByPrefix(assets, flagFilterPrefix)
		log.Info("prefix filter applied", "prefix", flagFilterPrefix, "assets", len(assets))
	}
	if len(assets) == 0 {
		return nil
	}

	spec := asset.DefaultDownloadSpec()
	spec.NamePrefix = flagPrefix
	spec.TextExportMode = textMode
	spec.GroupByPage = flagGroupPages
	spec.IncludeInArchive = !flagIndividual

	progress := func(done, total int) {
		log.Info("downloading", "done", done, "total", total)
	}

	dlCfg := archive.Config{
		BatchSize:     cfg.ArchiveBatchSize,
		BatchDelay:    cfg.BatchDelay,
		RetryAttempts: uint(cfg.RetryAttempts),
		RetryDelay:    cfg.RetryDelay,
	}

	if flagIndividual {
		dlCfg.BatchSize = cfg.SaveBatchSize
		failed, err := archive.NewSaver(dlCfg, log).Save(ctx, assets, spec, flagOut, progress)
		if err != nil {
			return err
		}
		log.Info("download complete", "dir", flagOut, "failed", failed)
		return nil
	}

	blob, failed, err := archive.NewBuilder(dlCfg, log).Build(ctx, assets, spec, progress)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("wfi-assets-%s.zip", time.Now().Format("2006-01-02"))
	path := filepath.Join(flagOut, name)
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return fmt.Errorf("write archive: %w", err)
	}
	log.Info("archive written", "path", path, "failed", failed)
	return nil
}

// filterByPrefix keeps only assets whose name starts with prefix.
func filterByPrefix(assets []asset.Asset, prefix string) []asset.Asset {
	kept := make([]asset.Asset, 0, len(assets))
	for _, a := range assets {
		if strings.HasPrefix(a.Name, prefix) {
			kept = append(kept, a)
		}
	}
	return kept
}

// selectPages maps --pages values (names or ids) to page ids; with no
// filter every page is selected.
func selectPages(pages []figma.Page, wanted []string) []string {
	ids := make([]string, 0, len(pages))
	for _, p := range pages {
		if len(wanted) == 0 || slices.Contains(wanted, p.Name) || slices.Contains(wanted, p.ID) {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
