package mapping

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Parse reads and decodes the mapping file at path.
func Parse(path string) (*Mapping, error) {
	filePath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path for %q: %w", path, err)
	}

	data, err := os.ReadFile(filePath) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file at path %q: %w", path, err)
	}

	return ParseBytes(data)
}

// ParseReader decodes a mapping file from r.
func ParseReader(r io.Reader) (*Mapping, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}
	return ParseBytes(data)
}

func ParseBytes(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}
	return &m, nil
}

// Format writes the mapping back out as YAML.
func (m *Mapping) Format(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	return enc.Encode(m)
}
