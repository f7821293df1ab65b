package header

import (
	"context"
	"fmt"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/mapping"
)

const ErrNoMapping = errors.Error("no header mapping for page layout")

// DefaultMappingProvider supplies the mapping for page layouts the configured
// mappings do not name. cache.Manager implements it.
type DefaultMappingProvider interface {
	DefaultMapping(ctx context.Context, page legacy.Page) (*mapping.PageLayout, error)
}

// ResolveMapping returns the configured layout whose name matches the page's
// layout file name, ignoring case and extension. The first match wins. When
// nothing matches, provider is asked for a default; a missing provider, a
// provider error or a nil default all fail with ErrNoMapping.
func ResolveMapping(ctx context.Context, page legacy.Page, layouts []mapping.PageLayout, provider DefaultMappingProvider) (*mapping.PageLayout, error) {
	name := legacy.LayoutName(page)

	if layout := mapping.FindPageLayout(layouts, name); layout != nil {
		return layout, nil
	}

	if provider == nil {
		return nil, ErrNoMapping.Wrapf("%q is not configured and no default mapping provider is set", name)
	}

	layout, err := provider.DefaultMapping(ctx, page)
	if err != nil {
		return nil, ErrNoMapping.Wrap(fmt.Errorf("%q: %w", name, err))
	}
	if layout == nil {
		return nil, ErrNoMapping.Wrapf("%q: default mapping provider returned nothing", name)
	}

	return layout, nil
}

// Mode is the header treatment a mapping selects.
type Mode int

const (
	ModeNone Mode = iota
	ModeDefault
	ModeCustom
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case ModeDefault:
		return "Default"
	case ModeCustom:
		return "Custom"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// SelectMode maps the layout's header mode to a Mode. Layouts are validated
// when loaded, so an unknown mode is a programming error and panics.
func SelectMode(layout *mapping.PageLayout) Mode {
	switch layout.PageHeader {
	case mapping.HeaderModeNone:
		return ModeNone
	case mapping.HeaderModeDefault:
		return ModeDefault
	case mapping.HeaderModeCustom:
		return ModeCustom
	default:
		panic(fmt.Sprintf("page layout %q has unknown header mode %q", layout.Name, layout.PageHeader))
	}
}
