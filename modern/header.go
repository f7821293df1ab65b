// Package modern models the header of the modern page produced by a migration.
package modern

import (
	"bytes"

	"gopkg.in/yaml.v3"
)

// Presence says which of the three mutually exclusive header states a page is in.
type Presence string

const (
	PresenceNone    Presence = "none"
	PresenceDefault Presence = "default"
	PresenceCustom  Presence = "custom"
)

type LayoutType string

const (
	LayoutTypeColorBlock     LayoutType = "ColorBlock"
	LayoutTypeCutInShape     LayoutType = "CutInShape"
	LayoutTypeNoImage        LayoutType = "NoImage"
	LayoutTypeFullWidthImage LayoutType = "FullWidthImage"
)

type TitleAlignment string

const (
	TitleAlignmentLeft   TitleAlignment = "Left"
	TitleAlignmentCenter TitleAlignment = "Center"
)

// PageHeader is the header of a modern page. The zero value is not useful; use
// NewPageHeader.
type PageHeader struct {
	Presence               Presence       `yaml:"presence"`
	ImageServerRelativeURL string         `yaml:"imageServerRelativeUrl,omitempty"`
	LayoutType             LayoutType     `yaml:"layoutType"`
	TextAlignment          TitleAlignment `yaml:"textAlignment"`
	ShowPublishDate        bool           `yaml:"showPublishDate"`
	TopicHeader            string         `yaml:"topicHeader,omitempty"`
	ShowTopicHeader        bool           `yaml:"showTopicHeader"`
	AlternativeText        string         `yaml:"alternativeText,omitempty"`

	// Authors is a JSON array of principals.
	Authors string `yaml:"authors,omitempty"`
}

// NewPageHeader returns the header a freshly created modern page carries: the
// default header, full width, left aligned.
func NewPageHeader() *PageHeader {
	return &PageHeader{
		Presence:      PresenceDefault,
		LayoutType:    LayoutTypeFullWidthImage,
		TextAlignment: TitleAlignmentLeft,
	}
}

// RemoveHeader leaves the page without a header.
func (h *PageHeader) RemoveHeader() {
	h.Presence = PresenceNone
	h.ImageServerRelativeURL = ""
}

// SetDefaultHeader switches to the default header, dropping any custom image.
func (h *PageHeader) SetDefaultHeader() {
	h.Presence = PresenceDefault
	h.ImageServerRelativeURL = ""
}

// SetCustomHeader switches to a custom header showing the image at url.
func (h *PageHeader) SetCustomHeader(url string) {
	h.Presence = PresenceCustom
	h.ImageServerRelativeURL = url
}

// HasHeader reports whether the page shows a header at all.
func (h *PageHeader) HasHeader() bool {
	return h.Presence == PresenceDefault || h.Presence == PresenceCustom
}

func (h *PageHeader) ToString() (string, error) {
	buf := bytes.NewBuffer([]byte{})
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	err := enc.Encode(h)
	return buf.String(), err
}
