package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/contentmigrate/pageheader/config"
	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
mapping: mapping.yaml
source:
  root: export
  siteUrl: https://contoso.sharepoint.com
  webUrl: https://contoso.sharepoint.com/sites/a
target:
  root: /srv/modern
  siteUrl: https://contoso.sharepoint.com/sites/modern
scripts:
  - functions.js
scriptTimeout: 250ms
concurrency: 8
logLevel: info
`

func TestLoad_Success(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(strings.NewReader(fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "mapping.yaml", cfg.Mapping)
	assert.Equal(t, "https://contoso.sharepoint.com/sites/a", cfg.Source.WebURL)
	assert.Empty(t, cfg.Target.WebURL)
	assert.Equal(t, "https://contoso.sharepoint.com/sites/modern", cfg.Target.Web(), "web defaults to the site")
	assert.Equal(t, 250*time.Millisecond, cfg.ScriptTimeout)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, logging.LevelInfo, cfg.Level())
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(strings.NewReader(`
source: {root: a, siteUrl: "https://contoso.sharepoint.com"}
target: {root: b, siteUrl: "https://contoso.sharepoint.com"}
`))
	require.NoError(t, err)

	assert.Empty(t, cfg.Mapping)
	assert.Equal(t, 5*time.Second, cfg.ScriptTimeout)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, logging.LevelWarn, cfg.Level())
}

func TestLoad_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		yaml     string
		expected []error
	}{
		{
			name:     "missing stores",
			yaml:     "logLevel: warn",
			expected: []error{config.ErrRootRequired, config.ErrSiteURLRequired},
		},
		{
			name: "bad values",
			yaml: `
source: {root: a, siteUrl: "https://contoso.sharepoint.com"}
target: {root: a, siteUrl: "https://contoso.sharepoint.com"}
scripts: [""]
scriptTimeout: -1s
concurrency: -2
logLevel: loud
`,
			expected: []error{
				config.ErrSourceTargetIdentical,
				config.ErrScriptPathRequired,
				config.ErrScriptTimeoutInvalid,
				config.ErrConcurrencyInvalid,
				config.ErrLogLevelInvalid,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Load(strings.NewReader(tt.yaml))
			require.Error(t, err)
			for _, want := range tt.expected {
				assert.ErrorIs(t, err, want)
			}
		})
	}

	_, err := config.Load(strings.NewReader("source: ["))
	require.Error(t, err)
	assert.Len(t, errors.UnwrapErrors(err), 1)
}

func TestLoadFile_ResolvesPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pageheader.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fullConfig), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "mapping.yaml"), cfg.Mapping)
	assert.Equal(t, filepath.Join(dir, "export"), cfg.Source.Root)
	assert.Equal(t, "/srv/modern", cfg.Target.Root)
	assert.Equal(t, []string{filepath.Join(dir, "functions.js")}, cfg.Scripts)

	_, err = config.LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestStore_Open(t *testing.T) {
	t.Parallel()

	web, err := config.Store{Root: t.TempDir(), SiteURL: "https://contoso.sharepoint.com", WebURL: "https://contoso.sharepoint.com/sites/a"}.Open()
	require.NoError(t, err)

	rel, err := web.WebServerRelativeURL(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "/sites/a", rel)

	_, err = config.Store{Root: t.TempDir(), SiteURL: "not a url"}.Open()
	require.Error(t, err)
}
