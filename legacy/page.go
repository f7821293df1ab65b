// Package legacy exposes the publishing page being migrated.
package legacy

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/speakeasy-api/jsonpath/pkg/jsonpath"
	"gopkg.in/yaml.v3"
)

// Well known publishing page fields.
const (
	FieldFileLeafRef          = "FileLeafRef"
	FieldPublishingPageLayout = "PublishingPageLayout"
)

// Page is the read-only view of a legacy publishing page.
type Page interface {
	// PageLayoutFile returns the URL or path of the page layout the page uses.
	PageLayoutFile() string
	// FieldValues returns the page's field values keyed by internal field name.
	FieldValues() map[string]string
	// FieldExistsAndUsed reports whether the page has a non-empty value for name.
	FieldExistsAndUsed(name string) bool
}

// Document is a Page decoded from YAML.
type Document struct {
	// Name identifies the page in reports. Defaults to the FileLeafRef field.
	Name string `yaml:"name,omitempty"`

	// PageLayout overrides the layout URL carried by the PublishingPageLayout field.
	PageLayout string `yaml:"pageLayout,omitempty"`

	Fields map[string]string `yaml:"fields"`
}

var _ Page = (*Document)(nil)

// PageLayoutFile prefers the explicit page layout. Otherwise the
// PublishingPageLayout field, stored as "<url>, <description>", supplies it.
func (d *Document) PageLayoutFile() string {
	if d.PageLayout != "" {
		return d.PageLayout
	}
	value := d.Fields[FieldPublishingPageLayout]
	if i := strings.Index(value, ","); i >= 0 {
		value = value[:i]
	}
	return strings.TrimSpace(value)
}

func (d *Document) FieldValues() map[string]string {
	return d.Fields
}

func (d *Document) FieldExistsAndUsed(name string) bool {
	value, ok := d.Fields[name]
	return ok && value != ""
}

// DisplayName returns Name, falling back to the FileLeafRef field.
func (d *Document) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Fields[FieldFileLeafRef]
}

// FileNameWithoutExtension returns the last element of a path or URL with its
// extension removed. Both slash styles separate elements.
func FileNameWithoutExtension(p string) string {
	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}

// LayoutName returns the page layout identity of page: the layout file name
// without extension.
func LayoutName(page Page) string {
	return FileNameWithoutExtension(page.PageLayoutFile())
}

// LoadDocument reads a single page document from path.
func LoadDocument(p string) (*Document, error) {
	f, err := os.Open(p) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open page file %q: %w", p, err)
	}
	defer f.Close()

	d, err := DecodeDocument(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load page from path %q: %w", p, err)
	}
	return d, nil
}

func DecodeDocument(r io.Reader) (*Document, error) {
	var d Document
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to parse page YAML: %w", err)
	}
	if d.Fields == nil {
		d.Fields = map[string]string{}
	}
	return &d, nil
}

// SelectDocuments decodes every node that selector, an RFC 9535 JSONPath,
// matches in a site export document.
func SelectDocuments(data []byte, selector string) ([]*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse export YAML: %w", err)
	}

	p, err := jsonpath.NewPath(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid page selector %q: %w", selector, err)
	}

	nodes := p.Query(&root)
	docs := make([]*Document, 0, len(nodes))
	for i, node := range nodes {
		var d Document
		if err := node.Decode(&d); err != nil {
			return nil, fmt.Errorf("page %d selected by %q (line %d): %w", i, selector, node.Line, err)
		}
		if d.Fields == nil {
			d.Fields = map[string]string{}
		}
		docs = append(docs, &d)
	}
	return docs, nil
}
