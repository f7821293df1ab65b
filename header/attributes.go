package header

import (
	"context"
	"fmt"

	"github.com/contentmigrate/pageheader/functions"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/mapping"
	"github.com/contentmigrate/pageheader/modern"
)

func layoutType(t mapping.HeaderType) (modern.LayoutType, bool) {
	switch t {
	case mapping.HeaderTypeColorBlock:
		return modern.LayoutTypeColorBlock, true
	case mapping.HeaderTypeCutInShape:
		return modern.LayoutTypeCutInShape, true
	case mapping.HeaderTypeNoImage:
		return modern.LayoutTypeNoImage, true
	case mapping.HeaderTypeFullWidthImage:
		return modern.LayoutTypeFullWidthImage, true
	default:
		// Unknown types keep the header's current layout type.
		return "", false
	}
}

func textAlignment(a mapping.HeaderAlignment) (modern.TitleAlignment, bool) {
	switch a {
	case mapping.HeaderAlignmentLeft:
		return modern.TitleAlignmentLeft, true
	case mapping.HeaderAlignmentCenter:
		return modern.TitleAlignmentCenter, true
	default:
		// Unknown alignments keep the header's current alignment.
		return "", false
	}
}

// applyAttributes copies the layout's header settings and field driven
// attributes onto target. Fields the layout does not declare, and fields that
// resolve to nothing, leave target untouched.
func applyAttributes(ctx context.Context, target *modern.PageHeader, layout *mapping.PageLayout, page legacy.Page, fields fieldResolver, logger Logger) {
	if t, ok := layoutType(layout.Header.Type); ok {
		target.LayoutType = t
	}
	if a, ok := textAlignment(layout.Header.Alignment); ok {
		target.TextAlignment = a
	}
	target.ShowPublishDate = layout.Header.ShowPublishedDate

	if f := layout.Field(mapping.HeaderPropertyTopicHeader); f != nil && page.FieldExistsAndUsed(f.Name) {
		target.TopicHeader = page.FieldValues()[f.Name]
		target.ShowTopicHeader = true
	}

	if v := optionalValue(ctx, layout, mapping.HeaderPropertyAlternativeText, functions.FieldTypeString, fields, logger); v != "" {
		target.AlternativeText = v
	}

	if v := optionalValue(ctx, layout, mapping.HeaderPropertyAuthors, functions.FieldTypeUser, fields, logger); v != "" {
		target.Authors = v
	}
}

func optionalValue(ctx context.Context, layout *mapping.PageLayout, prop mapping.HeaderProperty, fieldType functions.FieldType, fields fieldResolver, logger Logger) string {
	f := layout.Field(prop)
	if f == nil {
		return ""
	}

	v, err := fields.value(ctx, f, fieldType)
	if err != nil {
		logger.Warn(logging.CategoryPageHeader, fmt.Sprintf("skipping %s from field %s: %v", prop, f.Name, err))
		return ""
	}
	return v
}
