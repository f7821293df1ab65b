// Package loader loads mapping files and rejects those that fail schema or
// semantic validation.
package loader

import (
	"fmt"
	"io"
	"os"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/mapping"
)

// LoadMapping reads, validates and decodes the mapping file at path.
func LoadMapping(path string) (*mapping.Mapping, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file %q: %w", path, err)
	}
	defer f.Close()

	m, err := LoadMappingFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load mapping from path %q: %w", path, err)
	}
	return m, nil
}

// LoadMappingFromReader validates and decodes a mapping read from r.
func LoadMappingFromReader(r io.Reader) (*mapping.Mapping, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}

	if errs := mapping.ValidateSchema(data); len(errs) > 0 {
		return nil, mapping.ValidationErrors(errs)
	}

	m, err := mapping.ParseBytes(data)
	if err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Check runs both validation passes over raw mapping data and returns every
// problem found instead of stopping at the first failing pass.
func Check(data []byte) []error {
	errs := mapping.ValidateSchema(data)

	m, err := mapping.ParseBytes(data)
	if err != nil {
		return append(errs, err)
	}
	return append(errs, errors.UnwrapErrors(validationError(m.Validate()))...)
}

func validationError(err error) error {
	var verrs mapping.ValidationErrors
	if errors.As(err, &verrs) {
		return errors.Join(verrs...)
	}
	return err
}
