package mapping_test

import (
	"testing"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMapping() *mapping.Mapping {
	return &mapping.Mapping{
		Version: "1.0.0",
		PageLayouts: []mapping.PageLayout{
			{
				Name:       "ArticleLeft",
				PageHeader: mapping.HeaderModeCustom,
				Header: mapping.Header{
					Type:      mapping.HeaderTypeCutInShape,
					Alignment: mapping.HeaderAlignmentCenter,
					Fields: []mapping.HeaderField{
						{Name: "PublishingPageImage", HeaderProperty: mapping.HeaderPropertyImageServerRelativeURL},
					},
				},
			},
			{Name: "WelcomeSplash", PageHeader: mapping.HeaderModeDefault},
		},
	}
}

func TestMapping_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		mutate         func(m *mapping.Mapping)
		expectedErrors []error
	}{
		{
			name:   "valid mapping",
			mutate: func(m *mapping.Mapping) {},
		},
		{
			name:           "invalid version",
			mutate:         func(m *mapping.Mapping) { m.Version = "latest" },
			expectedErrors: []error{mapping.ErrMappingVersionInvalid},
		},
		{
			name:           "unsupported version",
			mutate:         func(m *mapping.Mapping) { m.Version = "2.0.0" },
			expectedErrors: []error{mapping.ErrMappingVersionNotSupported},
		},
		{
			name:           "no page layouts",
			mutate:         func(m *mapping.Mapping) { m.PageLayouts = nil },
			expectedErrors: []error{mapping.ErrMappingMustDefineAPageLayout},
		},
		{
			name:           "missing layout name",
			mutate:         func(m *mapping.Mapping) { m.PageLayouts[1].Name = "" },
			expectedErrors: []error{mapping.ErrPageLayoutNameMustBeDefined},
		},
		{
			name:           "duplicate layout name ignoring case",
			mutate:         func(m *mapping.Mapping) { m.PageLayouts[1].Name = "articleLEFT" },
			expectedErrors: []error{mapping.ErrPageLayoutNameDuplicated},
		},
		{
			name:           "unknown header mode",
			mutate:         func(m *mapping.Mapping) { m.PageLayouts[1].PageHeader = "Hero" },
			expectedErrors: []error{mapping.ErrPageLayoutHeaderModeInvalid},
		},
		{
			name: "unknown type and alignment on custom header",
			mutate: func(m *mapping.Mapping) {
				m.PageLayouts[0].Header.Type = "Banner"
				m.PageLayouts[0].Header.Alignment = "Right"
			},
			expectedErrors: []error{mapping.ErrPageLayoutHeaderTypeInvalid, mapping.ErrPageLayoutHeaderAlignmentInvalid},
		},
		{
			name: "header settings of a default header are not checked",
			mutate: func(m *mapping.Mapping) {
				m.PageLayouts[1].Header.Type = "Banner"
			},
		},
		{
			name: "bad field",
			mutate: func(m *mapping.Mapping) {
				m.PageLayouts[0].Header.Fields = append(m.PageLayouts[0].Header.Fields, mapping.HeaderField{HeaderProperty: "Subtitle"})
			},
			expectedErrors: []error{mapping.ErrHeaderFieldNameMustBeDefined, mapping.ErrHeaderFieldPropertyInvalid},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := validMapping()
			tt.mutate(m)

			err := m.Validate()
			if len(tt.expectedErrors) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			var verrs mapping.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, len(tt.expectedErrors))
			for i, expected := range tt.expectedErrors {
				assert.ErrorIs(t, verrs[i], expected)
			}
		})
	}
}
