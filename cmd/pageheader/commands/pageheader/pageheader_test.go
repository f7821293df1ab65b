package pageheader

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/contentmigrate/pageheader/config"
	"github.com/contentmigrate/pageheader/header"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/mapping"
	"github.com/contentmigrate/pageheader/mapping/loader"
	"github.com/contentmigrate/pageheader/migrate"
	"github.com/contentmigrate/pageheader/modern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const siteURL = "https://contoso.sharepoint.com"

func testSettings(t *testing.T) *config.Config {
	t.Helper()

	sourceRoot := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(sourceRoot, "sites", "a", "Images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sourceRoot, "sites", "a", "Images", "hero.jpg"), []byte("jpeg"), 0o600))

	flags := runFlags{
		mapping:    "../../../../mapping/testdata/mapping.yaml",
		sourceRoot: sourceRoot,
		sourceSite: siteURL,
		sourceWeb:  siteURL + "/sites/a",
		targetRoot: t.TempDir(),
		targetSite: siteURL,
		targetWeb:  siteURL + "/sites/news",
		scripts:    []string{"testdata/functions.js"},
	}
	cfg, err := flags.settings()
	require.NoError(t, err)
	return cfg
}

func TestRunFlags_Settings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pageheader.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mapping: mapping.yaml
source: {root: export, siteUrl: "https://contoso.sharepoint.com"}
target: {root: modern, siteUrl: "https://contoso.sharepoint.com", webUrl: "https://contoso.sharepoint.com/sites/news"}
concurrency: 2
`), 0o600))

	flags := runFlags{config: path, sourceWeb: siteURL + "/sites/a", concurrency: 6, logLevel: "error"}
	cfg, err := flags.settings()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "mapping.yaml"), cfg.Mapping)
	assert.Equal(t, siteURL+"/sites/a", cfg.Source.WebURL)
	assert.Equal(t, siteURL+"/sites/news", cfg.Target.WebURL)
	assert.Equal(t, 6, cfg.Concurrency)
	assert.Equal(t, logging.LevelError, cfg.Level())

	_, err = (&runFlags{}).settings()
	require.ErrorIs(t, err, config.ErrRootRequired)
}

func TestTransformPage(t *testing.T) {
	t.Parallel()

	env, err := environment(testSettings(t), logging.Discard)
	require.NoError(t, err)

	page := `
name: news.aspx
pageLayout: /sites/a/_catalogs/masterpage/ArticleLeft.aspx
fields:
  FileLeafRef: news.aspx
  PublishingPageImage: '<img alt="Hero" src="/sites/a/Images/hero.jpg">'
  ArticleByLine: Company news
`
	var out bytes.Buffer
	outcome, err := transformPage(t.Context(), env, strings.NewReader(page), &out)
	require.NoError(t, err)
	assert.Equal(t, header.OutcomeCustom, outcome)

	var h modern.PageHeader
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &h))
	assert.Equal(t, modern.PresenceCustom, h.Presence)
	assert.Equal(t, "/sites/news/SiteAssets/SitePages/news/hero.jpg", h.ImageServerRelativeURL)
	assert.Equal(t, "Company news", h.TopicHeader)
	assert.True(t, h.ShowTopicHeader)
	assert.Equal(t, "Hero", h.AlternativeText)

	_, err = transformPage(t.Context(), env, strings.NewReader("pageLayout: /x/Unknown.aspx\nfields: {}\n"), &out)
	require.NoError(t, err, "unknown layouts get the default mapping")
}

func TestEnvironment_Scripts(t *testing.T) {
	t.Parallel()

	cfg := testSettings(t)
	env, err := environment(cfg, logging.Discard)
	require.NoError(t, err)

	status, value, err := env.Functions(nil).Process(t.Context(), "Upper('news')", "TopicHeader", 0)
	require.NoError(t, err)
	assert.Equal(t, "TopicHeader", status)
	assert.Equal(t, "NEWS", value)

	cfg.Scripts = []string{"testdata/missing.js"}
	_, err = environment(cfg, logging.Discard)
	require.Error(t, err)
}

func TestRunBatch(t *testing.T) {
	t.Parallel()

	env, err := environment(testSettings(t), logging.Discard)
	require.NoError(t, err)

	data, err := os.ReadFile("testdata/export.yaml")
	require.NoError(t, err)

	results, err := runBatch(t.Context(), env, 2, data, DefaultSelector)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, migrate.Summary{Custom: 1, Default: 1, CustomFallback: 1}, migrate.Summarize(results))
	assert.Equal(t, "missing-image.aspx", results[2].Name)
	assert.Equal(t, "Events", results[2].Header.TopicHeader)

	var out bytes.Buffer
	require.NoError(t, writeResults(&out, results))
	assert.Contains(t, out.String(), "outcome: customFallback")
	assert.Contains(t, out.String(), "imageServerRelativeUrl: /sites/news/SiteAssets/SitePages/news/hero.jpg")

	selected, err := runBatch(t.Context(), env, 1, data, `$.pages[?@.name == 'welcome.aspx']`)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, header.OutcomeDefault, selected[0].Outcome)

	_, err = runBatch(t.Context(), env, 1, data, `$.nothing[*]`)
	require.Error(t, err)
}

func TestDefaultMapping(t *testing.T) {
	t.Parallel()

	s, err := defaultMapping([]string{"ArticleLeft", "WelcomeSplash"}).ToString()
	require.NoError(t, err)

	m, err := loader.LoadMappingFromReader(strings.NewReader(s))
	require.NoError(t, err)
	require.Len(t, m.PageLayouts, 2)
	assert.Equal(t, *mapping.DefaultPageLayout("WelcomeSplash"), m.PageLayouts[1])
}

func TestRenderSummary(t *testing.T) {
	t.Parallel()

	out := renderSummary(migrate.Summary{Custom: 3, CustomFallback: 1, Failed: 2}, 6)

	assert.Contains(t, out, "Header migration: 6 pages")
	for _, label := range []string{"Custom header", "Image fallback", "Default header", "Header removed", "Failed"} {
		assert.Contains(t, out, label)
	}
}
