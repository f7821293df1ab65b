// Package config loads the settings of a header migration run.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/contentmigrate/pageheader/errors"
	"github.com/contentmigrate/pageheader/functions"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/migrate"
	"github.com/contentmigrate/pageheader/site"
	"github.com/contentmigrate/pageheader/system"
	"gopkg.in/yaml.v3"
)

const (
	ErrSiteURLRequired       = errors.Error("siteUrl must be defined")
	ErrRootRequired          = errors.Error("root must be defined")
	ErrConcurrencyInvalid    = errors.Error("concurrency must not be negative")
	ErrScriptTimeoutInvalid  = errors.Error("scriptTimeout must not be negative")
	ErrLogLevelInvalid       = errors.Error("logLevel must be one of info, warn or error")
	ErrScriptPathRequired    = errors.Error("script path must not be empty")
	ErrSourceTargetIdentical = errors.Error("source and target must not be the same web")
)

const DefaultLogLevel = "warn"

// Store locates one web of a content store kept on disk.
type Store struct {
	// Root is the directory holding the store's files.
	Root string `yaml:"root"`

	SiteURL string `yaml:"siteUrl"`

	// WebURL defaults to SiteURL.
	WebURL string `yaml:"webUrl,omitempty"`
}

// Config is the settings file of a migration run.
type Config struct {
	// Mapping is the mapping file. Without one every page layout gets the
	// default mapping.
	Mapping string `yaml:"mapping,omitempty"`

	Source Store `yaml:"source"`
	Target Store `yaml:"target"`

	// Scripts are JavaScript files whose functions field expressions can call.
	Scripts []string `yaml:"scripts,omitempty"`

	ScriptTimeout time.Duration `yaml:"scriptTimeout,omitempty"`
	Concurrency   int           `yaml:"concurrency,omitempty"`
	LogLevel      string        `yaml:"logLevel,omitempty"`
}

// Load reads a Config from YAML, applies defaults and validates it.
func Load(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFile loads a Config and resolves its relative paths against the
// directory of path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Load(f)
	if err != nil {
		return nil, err
	}
	cfg.Resolve(filepath.Dir(path))

	return cfg, nil
}

// ApplyDefaults fills in unset settings.
func (c *Config) ApplyDefaults() {
	if c.ScriptTimeout == 0 {
		c.ScriptTimeout = functions.DefaultScriptTimeout
	}
	if c.Concurrency == 0 {
		c.Concurrency = migrate.DefaultConcurrency
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
}

// Resolve makes relative file paths relative to dir.
func (c *Config) Resolve(dir string) {
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	c.Mapping = resolve(c.Mapping)
	c.Source.Root = resolve(c.Source.Root)
	c.Target.Root = resolve(c.Target.Root)
	for i, s := range c.Scripts {
		c.Scripts[i] = resolve(s)
	}
}

// Validate reports every problem with the settings.
func (c *Config) Validate() error {
	var errs []error

	errs = append(errs, c.Source.validate("source")...)
	errs = append(errs, c.Target.validate("target")...)
	if c.Source.Root != "" && c.Source.Root == c.Target.Root && strings.EqualFold(c.Source.Web(), c.Target.Web()) {
		errs = append(errs, ErrSourceTargetIdentical)
	}

	for i, s := range c.Scripts {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, fmt.Errorf("scripts[%d]: %w", i, ErrScriptPathRequired))
		}
	}
	if c.ScriptTimeout < 0 {
		errs = append(errs, ErrScriptTimeoutInvalid)
	}
	if c.Concurrency < 0 {
		errs = append(errs, ErrConcurrencyInvalid)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w, got %q", ErrLogLevelInvalid, c.LogLevel))
	}

	return errors.Join(errs...)
}

func (s Store) validate(name string) []error {
	var errs []error
	if s.Root == "" {
		errs = append(errs, fmt.Errorf("%s: %w", name, ErrRootRequired))
	}
	if s.SiteURL == "" {
		errs = append(errs, fmt.Errorf("%s: %w", name, ErrSiteURLRequired))
	}
	return errs
}

// Level returns the configured log level.
func (c *Config) Level() logging.Level {
	return logging.ParseLevel(c.LogLevel)
}

// Web returns WebURL, or SiteURL when no web is set.
func (s Store) Web() string {
	if s.WebURL == "" {
		return s.SiteURL
	}
	return s.WebURL
}

// Open returns a handle on the store's web.
func (s Store) Open() (*site.Web, error) {
	return site.NewWeb(&system.FileSystem{Root: s.Root}, s.SiteURL, s.Web())
}
