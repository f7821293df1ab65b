package mapping

import (
	"strings"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/internal/fold"
	"github.com/contentmigrate/pageheader/internal/version"
)

var SupportedVersions = []version.Version{version.MustParse(Version100)}

const (
	ErrMappingVersionInvalid            = errors.Error("mapping version is invalid")
	ErrMappingVersionNotSupported       = errors.Error("mapping version is not supported")
	ErrMappingMustDefineAPageLayout     = errors.Error("mapping must define at least one page layout")
	ErrPageLayoutNameMustBeDefined      = errors.Error("page layout name must be defined")
	ErrPageLayoutNameDuplicated         = errors.Error("page layout name is defined more than once")
	ErrPageLayoutHeaderModeInvalid      = errors.Error("page layout page header mode is invalid")
	ErrPageLayoutHeaderTypeInvalid      = errors.Error("page layout header type is invalid")
	ErrPageLayoutHeaderAlignmentInvalid = errors.Error("page layout header alignment is invalid")
	ErrHeaderFieldNameMustBeDefined     = errors.Error("header field name must be defined")
	ErrHeaderFieldPropertyInvalid       = errors.Error("header field header property is invalid")
)

type ValidationErrors []error

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, err := range v {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

func (v ValidationErrors) Return() error {
	if len(v) > 0 {
		return v
	}
	return nil
}

func (m *Mapping) ValidateVersion() []error {
	v, err := version.Parse(m.Version)
	switch {
	case err != nil:
		return []error{ErrMappingVersionInvalid.Wrap(err)}
	case !v.IsOneOf(SupportedVersions):
		return []error{ErrMappingVersionNotSupported.Wrapf("got %s, supported: %s", v, supportedVersionList())}
	}
	return nil
}

// Validate checks the semantic rules a schema cannot express, such as unique
// page layout names. Header type and alignment are only checked for custom
// headers, the only mode that reads them.
func (m *Mapping) Validate() error {
	errs := make(ValidationErrors, 0)
	errs = append(errs, m.ValidateVersion()...)

	if len(m.PageLayouts) == 0 {
		errs = append(errs, ErrMappingMustDefineAPageLayout)
	}

	seen := make(map[string]int, len(m.PageLayouts))
	for i, layout := range m.PageLayouts {
		if layout.Name == "" {
			errs = append(errs, ErrPageLayoutNameMustBeDefined.Wrapf("page layout at index %d", i))
		} else {
			key := fold.String(layout.Name)
			if first, ok := seen[key]; ok {
				errs = append(errs, ErrPageLayoutNameDuplicated.Wrapf("%q at index %d and %d", layout.Name, first, i))
			} else {
				seen[key] = i
			}
		}

		errs = append(errs, layout.validate(i)...)
	}

	return errs.Return()
}

func (p *PageLayout) validate(index int) []error {
	var errs []error

	if !p.PageHeader.IsKnown() {
		errs = append(errs, ErrPageLayoutHeaderModeInvalid.Wrapf("page layout %q (index %d): %q", p.Name, index, p.PageHeader))
	}

	if p.PageHeader != HeaderModeCustom {
		return errs
	}

	if p.Header.Type != "" && !p.Header.Type.IsKnown() {
		errs = append(errs, ErrPageLayoutHeaderTypeInvalid.Wrapf("page layout %q: %q", p.Name, p.Header.Type))
	}
	if p.Header.Alignment != "" && !p.Header.Alignment.IsKnown() {
		errs = append(errs, ErrPageLayoutHeaderAlignmentInvalid.Wrapf("page layout %q: %q", p.Name, p.Header.Alignment))
	}

	for j, field := range p.Header.Fields {
		if field.Name == "" {
			errs = append(errs, ErrHeaderFieldNameMustBeDefined.Wrapf("page layout %q field at index %d", p.Name, j))
		}
		if !field.HeaderProperty.IsKnown() {
			errs = append(errs, ErrHeaderFieldPropertyInvalid.Wrapf("page layout %q field %q: %q", p.Name, field.Name, field.HeaderProperty))
		}
	}

	return errs
}

func supportedVersionList() string {
	out := make([]string, len(SupportedVersions))
	for i, v := range SupportedVersions {
		out[i] = v.String()
	}
	return strings.Join(out, ", ")
}
