// Package mapping models the declarative file that tells the header
// transformation how a legacy page layout's header is rendered on a modern page.
package mapping

import (
	"bytes"

	"github.com/contentmigrate/pageheader/internal/fold"
	"gopkg.in/yaml.v3"
)

// Version constants for the mapping file format.
const (
	LatestVersion = "1.0.0"
	Version100    = "1.0.0"
)

// HeaderMode selects whether the modern page gets no header, the default header
// or a header built from the legacy page.
type HeaderMode string

const (
	HeaderModeNone    HeaderMode = "None"
	HeaderModeDefault HeaderMode = "Default"
	HeaderModeCustom  HeaderMode = "Custom"
)

// HeaderType is the layout requested for a custom header.
type HeaderType string

const (
	HeaderTypeColorBlock     HeaderType = "ColorBlock"
	HeaderTypeCutInShape     HeaderType = "CutInShape"
	HeaderTypeNoImage        HeaderType = "NoImage"
	HeaderTypeFullWidthImage HeaderType = "FullWidthImage"
)

// HeaderAlignment is the title alignment requested for a custom header.
type HeaderAlignment string

const (
	HeaderAlignmentLeft   HeaderAlignment = "Left"
	HeaderAlignmentCenter HeaderAlignment = "Center"
)

// HeaderProperty names the header attribute a legacy field feeds.
type HeaderProperty string

const (
	HeaderPropertyImageServerRelativeURL HeaderProperty = "ImageServerRelativeUrl"
	HeaderPropertyTopicHeader            HeaderProperty = "TopicHeader"
	HeaderPropertyAlternativeText        HeaderProperty = "AlternativeText"
	HeaderPropertyAuthors                HeaderProperty = "Authors"
)

var (
	headerModes      = []HeaderMode{HeaderModeNone, HeaderModeDefault, HeaderModeCustom}
	headerTypes      = []HeaderType{HeaderTypeColorBlock, HeaderTypeCutInShape, HeaderTypeNoImage, HeaderTypeFullWidthImage}
	headerAlignments = []HeaderAlignment{HeaderAlignmentLeft, HeaderAlignmentCenter}
	headerProperties = []HeaderProperty{HeaderPropertyImageServerRelativeURL, HeaderPropertyTopicHeader, HeaderPropertyAlternativeText, HeaderPropertyAuthors}
)

func (m HeaderMode) IsKnown() bool { return contains(headerModes, m) }
func (t HeaderType) IsKnown() bool { return contains(headerTypes, t) }
func (a HeaderAlignment) IsKnown() bool { return contains(headerAlignments, a) }
func (p HeaderProperty) IsKnown() bool { return contains(headerProperties, p) }

func contains[T comparable](values []T, v T) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Mapping is the top-level mapping file.
type Mapping struct {
	// Version is the version of the mapping file format.
	Version string `yaml:"version"`

	// PageLayouts are searched in order; the first name match wins.
	PageLayouts []PageLayout `yaml:"pageLayouts"`
}

// PageLayout describes the header of pages built on one legacy page layout.
type PageLayout struct {
	// Name is the page layout file name without extension, e.g. "ArticleLeft".
	Name string `yaml:"name"`

	PageHeader HeaderMode `yaml:"pageHeader"`

	// Header is only consulted when PageHeader is Custom.
	Header Header `yaml:"header,omitempty"`
}

type Header struct {
	Type              HeaderType      `yaml:"type,omitempty"`
	Alignment         HeaderAlignment `yaml:"alignment,omitempty"`
	ShowPublishedDate bool            `yaml:"showPublishedDate"`
	Fields            []HeaderField   `yaml:"fields,omitempty"`
}

// HeaderField binds a legacy field to a header property, optionally through a
// function expression such as "ToImageUrl({PublishingPageImage})".
type HeaderField struct {
	Name           string         `yaml:"name"`
	HeaderProperty HeaderProperty `yaml:"headerProperty"`
	Functions      string         `yaml:"functions,omitempty"`
}

// Field returns the first field bound to prop, or nil.
func (p *PageLayout) Field(prop HeaderProperty) *HeaderField {
	if p == nil {
		return nil
	}
	for i := range p.Header.Fields {
		if p.Header.Fields[i].HeaderProperty == prop {
			return &p.Header.Fields[i]
		}
	}
	return nil
}

// Find returns the first page layout whose name matches name ignoring case.
func (m *Mapping) Find(name string) *PageLayout {
	if m == nil {
		return nil
	}
	return FindPageLayout(m.PageLayouts, name)
}

// FindPageLayout searches layouts for name ignoring case.
func FindPageLayout(layouts []PageLayout, name string) *PageLayout {
	for i := range layouts {
		if fold.Equal(layouts[i].Name, name) {
			return &layouts[i]
		}
	}
	return nil
}

func (m *Mapping) ToString() (string, error) {
	buf := bytes.NewBuffer([]byte{})
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	err := enc.Encode(m)
	return buf.String(), err
}
