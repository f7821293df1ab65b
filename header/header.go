// Package header decides how the header of a legacy publishing page is
// rendered on the modern page it migrates to.
//
// A Transformer resolves the mapping for the page's layout, then either
// removes the header, keeps the default header, or builds a custom header from
// the page image. A custom header whose image cannot be produced degrades to
// the default header. Layout type, alignment, publish date, topic, alternative
// text and authors are applied to custom and fallback headers only.
package header

import (
	"context"
	"fmt"

	"github.com/contentmigrate/pageheader/assets"
	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/functions"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/mapping"
	"github.com/contentmigrate/pageheader/modern"
	"github.com/contentmigrate/pageheader/site"
)

const (
	// ErrMissingContext is returned by New without a source or target context.
	ErrMissingContext = errors.Error("source and target site contexts are required")

	// ErrMissingTarget is returned by TransformHeader for a nil target header.
	ErrMissingTarget = errors.Error("target page header is required")
)

// MessageImageTransferFailed is logged when a custom header falls back to the
// default header because its image could not be transferred.
const MessageImageTransferFailed = "header image asset transfer failed"

// Logger is the sink the transformation reports to.
type Logger = logging.Logger

// Outcome names the terminal state of a header transformation.
type Outcome string

const (
	// OutcomeRemoved is a page whose mapping removes the header.
	OutcomeRemoved Outcome = "removed"

	// OutcomeDefault is a page given the default header by its mapping.
	OutcomeDefault Outcome = "default"

	// OutcomeCustom is a custom header with a transferred image.
	OutcomeCustom Outcome = "custom"

	// OutcomeCustomFallback is a custom mapping rendered as the default
	// header because no image could be produced.
	OutcomeCustomFallback Outcome = "customFallback"
)

// Config configures a Transformer. Source and Target are required.
type Config struct {
	// Layouts are the configured mappings, searched in order.
	Layouts []mapping.PageLayout

	// Defaults supplies mappings for layouts not in Layouts.
	Defaults DefaultMappingProvider

	// Functions returns the processor used to evaluate a page's field
	// functions. Defaults to a functions.Processor with the built-ins only.
	Functions func(page legacy.Page) FunctionProcessor

	// Assets defaults to an assets.Transferer.
	Assets AssetTransferer

	Source site.Context
	Target site.Context
	Logger Logger
}

// Transformer holds the read-only configuration for transforming page headers
// from one source web to one target web. It keeps no state between calls.
type Transformer struct {
	layouts   []mapping.PageLayout
	defaults  DefaultMappingProvider
	functions func(page legacy.Page) FunctionProcessor
	images    imageResolver
	logger    Logger
}

func New(cfg Config) (*Transformer, error) {
	if cfg.Source == nil || cfg.Target == nil {
		return nil, ErrMissingContext
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard
	}

	transfer := cfg.Assets
	if transfer == nil {
		transfer = assets.NewTransferer(logger)
	}

	newFunctions := cfg.Functions
	if newFunctions == nil {
		newFunctions = func(page legacy.Page) FunctionProcessor {
			return functions.NewProcessor(page, functions.WithLogger(logger))
		}
	}

	return &Transformer{
		layouts:   cfg.Layouts,
		defaults:  cfg.Defaults,
		functions: newFunctions,
		images: imageResolver{
			source: cfg.Source,
			target: cfg.Target,
			assets: transfer,
		},
		logger: logger,
	}, nil
}

// TransformHeader sets target to the header page should carry. The only error
// returned is a failure to resolve the page's mapping, in which case target is
// left unchanged. Image failures are logged and end in OutcomeCustomFallback.
func (t *Transformer) TransformHeader(ctx context.Context, page legacy.Page, target *modern.PageHeader) (Outcome, error) {
	if target == nil {
		return "", ErrMissingTarget
	}

	layout, err := ResolveMapping(ctx, page, t.layouts, t.defaults)
	if err != nil {
		return "", err
	}

	switch SelectMode(layout) {
	case ModeNone:
		target.RemoveHeader()
		return OutcomeRemoved, nil
	case ModeDefault:
		target.SetDefaultHeader()
		return OutcomeDefault, nil
	}

	fields := fieldResolver{page: page, functions: t.functions(page)}

	outcome := OutcomeCustomFallback
	image := t.customImage(ctx, layout, page, fields)
	if image.OK() {
		target.SetCustomHeader(image.URL)
		outcome = OutcomeCustom
	} else {
		if image.Err != nil {
			t.logger.Error(logging.CategoryPageHeader, MessageImageTransferFailed, image.Err)
		}
		target.SetDefaultHeader()
	}

	applyAttributes(ctx, target, layout, page, fields, t.logger)

	return outcome, nil
}

// customImage resolves and transfers the image of a custom header. A layout
// without an image field, or an image field without a value, gives the zero
// ImageResult.
func (t *Transformer) customImage(ctx context.Context, layout *mapping.PageLayout, page legacy.Page, fields fieldResolver) ImageResult {
	f := layout.Field(mapping.HeaderPropertyImageServerRelativeURL)
	if f == nil {
		return ImageResult{}
	}

	value, err := fields.value(ctx, f, functions.FieldTypeString)
	if err != nil {
		return imageFailure(fmt.Errorf("evaluating image field %s: %w", f.Name, err))
	}
	if value == "" {
		return ImageResult{}
	}

	return t.images.resolve(ctx, value, page)
}
