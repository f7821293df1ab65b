package loader_test

import (
	"strings"
	"testing"

	"github.com/contentmigrate/pageheader/mapping"
	"github.com/contentmigrate/pageheader/mapping/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMapping_Success(t *testing.T) {
	t.Parallel()

	m, err := loader.LoadMapping("../testdata/mapping.yaml")
	require.NoError(t, err)
	require.NotNil(t, m.Find("articleleft"))
	assert.Equal(t, mapping.HeaderModeCustom, m.Find("articleleft").PageHeader)
}

func TestLoadMapping_Error(t *testing.T) {
	t.Parallel()

	_, err := loader.LoadMapping("../testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open mapping file")
}

func TestLoadMappingFromReader_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		yml      string
		contains string
	}{
		{
			name: "schema violation",
			yml: `version: 1.0.0
pageLayouts:
  - name: ArticleLeft
    pageHeader: Sometimes
`,
			contains: "/pageLayouts/0/pageHeader",
		},
		{
			name: "duplicate layout passes schema but fails semantic validation",
			yml: `version: 1.0.0
pageLayouts:
  - name: ArticleLeft
    pageHeader: None
  - name: ARTICLELEFT
    pageHeader: Default
`,
			contains: mapping.ErrPageLayoutNameDuplicated.Error(),
		},
		{
			name: "unsupported version",
			yml: `version: 9.0.0
pageLayouts:
  - name: ArticleLeft
    pageHeader: None
`,
			contains: mapping.ErrMappingVersionNotSupported.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := loader.LoadMappingFromReader(strings.NewReader(tt.yml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestCheck_ReportsAllPasses(t *testing.T) {
	t.Parallel()

	errs := loader.Check([]byte(`version: 9.0.0
pageLayouts:
  - name: ArticleLeft
    pageHeader: Sometimes
`))

	var schema, semantic bool
	for _, err := range errs {
		if strings.Contains(err.Error(), "/pageLayouts/0/pageHeader") {
			schema = true
		}
		if strings.Contains(err.Error(), mapping.ErrMappingVersionNotSupported.Error()) {
			semantic = true
		}
	}
	assert.True(t, schema, "schema errors missing: %v", errs)
	assert.True(t, semantic, "semantic errors missing: %v", errs)
}
