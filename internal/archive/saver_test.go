package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HironOficial/wfi/internal/asset"
)

func TestSave_WritesIndividualFiles(t *testing.T) {
	srv := assetServer(t, "/broken")
	dir := t.TempDir()

	assets := []asset.Asset{
		imageAsset("1", "one", srv.URL+"/one"),
		imageAsset("2", "two", srv.URL+"/two"),
		imageAsset("3", "broken", srv.URL+"/broken"),
	}

	s := NewSaver(testConfig(srv), testLog)
	failed, err := s.Save(context.Background(), assets, asset.DefaultDownloadSpec(), dir, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"one.png", "two.png"}, names)

	data, err := os.ReadFile(filepath.Join(dir, "one.png"))
	require.NoError(t, err)
	assert.Equal(t, "data:/one", string(data))
}

func TestSave_FontArtifactsLandFlat(t *testing.T) {
	srv := assetServer(t)
	dir := t.TempDir()

	a := asset.Asset{
		ID: "t1", Name: "label", Kind: asset.KindText, Format: asset.FormatPNG,
		RenderURL:  srv.URL + "/label",
		FontFamily: "Inter", FontStyle: "Regular", FontWeight: 400,
		FontURL:    srv.URL + "/inter.ttf",
	}
	spec := asset.DefaultDownloadSpec()
	spec.TextExportMode = asset.TextAsBoth

	s := NewSaver(testConfig(srv), testLog)
	failed, err := s.Save(context.Background(), []asset.Asset{a}, spec, dir, nil)
	require.NoError(t, err)
	assert.Zero(t, failed)

	for _, name := range []string{"label.png", "Inter-Regular.ttf", "Inter-Regular.css"} {
		_, statErr := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, statErr, name)
	}
}

func TestSave_CreatesOutputDir(t *testing.T) {
	srv := assetServer(t)
	dir := filepath.Join(t.TempDir(), "nested", "out")

	s := NewSaver(testConfig(srv), testLog)
	failed, err := s.Save(context.Background(), []asset.Asset{imageAsset("1", "one", srv.URL+"/one")}, asset.DefaultDownloadSpec(), dir, nil)
	require.NoError(t, err)
	assert.Zero(t, failed)

	_, err = os.Stat(filepath.Join(dir, "one.png"))
	assert.NoError(t, err)
}
