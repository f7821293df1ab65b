package pageheader

import (
	"fmt"
	"time"

	"github.com/contentmigrate/pageheader/assets"
	"github.com/contentmigrate/pageheader/cache"
	"github.com/contentmigrate/pageheader/config"
	"github.com/contentmigrate/pageheader/functions"
	"github.com/contentmigrate/pageheader/header"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/mapping/loader"
	"github.com/spf13/cobra"
)

// runFlags are shared by the commands that transform pages. Flags override
// the settings file.
type runFlags struct {
	config        string
	mapping       string
	sourceRoot    string
	sourceSite    string
	sourceWeb     string
	targetRoot    string
	targetSite    string
	targetWeb     string
	scripts       []string
	scriptTimeout time.Duration
	concurrency   int
	logLevel      string
}

func (f *runFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.config, "config", "c", "", "Path to a settings file")
	flags.StringVarP(&f.mapping, "mapping", "m", "", "Path to the mapping file (default mapping for every layout when omitted)")
	flags.StringVar(&f.sourceRoot, "source-root", "", "Directory holding the source content store")
	flags.StringVar(&f.sourceSite, "source-site", "", "Source site collection URL")
	flags.StringVar(&f.sourceWeb, "source-web", "", "Source web URL (defaults to the site URL)")
	flags.StringVar(&f.targetRoot, "target-root", "", "Directory holding the target content store")
	flags.StringVar(&f.targetSite, "target-site", "", "Target site collection URL")
	flags.StringVar(&f.targetWeb, "target-web", "", "Target web URL (defaults to the site URL)")
	flags.StringSliceVar(&f.scripts, "script", nil, "JavaScript file with extra field functions (can be repeated)")
	flags.DurationVar(&f.scriptTimeout, "script-timeout", 0, "Maximum run time of one script function (default 5s)")
	flags.IntVar(&f.concurrency, "concurrency", 0, "Number of pages transformed at once (default 4)")
	flags.StringVar(&f.logLevel, "log-level", "", "Log level: info, warn or error (default warn)")
}

// settings loads the settings file, if any, and applies the flags over it.
func (f *runFlags) settings() (*config.Config, error) {
	cfg := &config.Config{}
	if f.config != "" {
		loaded, err := config.LoadFile(f.config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Mapping, f.mapping)
	override(&cfg.Source.Root, f.sourceRoot)
	override(&cfg.Source.SiteURL, f.sourceSite)
	override(&cfg.Source.WebURL, f.sourceWeb)
	override(&cfg.Target.Root, f.targetRoot)
	override(&cfg.Target.SiteURL, f.targetSite)
	override(&cfg.Target.WebURL, f.targetWeb)
	override(&cfg.LogLevel, f.logLevel)
	if len(f.scripts) > 0 {
		cfg.Scripts = f.scripts
	}
	if f.scriptTimeout != 0 {
		cfg.ScriptTimeout = f.scriptTimeout
	}
	if f.concurrency != 0 {
		cfg.Concurrency = f.concurrency
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings:\n%w", err)
	}
	return cfg, nil
}

// environment builds the header transformation configuration described by cfg.
func environment(cfg *config.Config, logger logging.Logger) (header.Config, error) {
	var env header.Config

	if cfg.Mapping != "" {
		m, err := loader.LoadMapping(cfg.Mapping)
		if err != nil {
			return env, err
		}
		env.Layouts = m.PageLayouts
	}

	var scripts *functions.ScriptRuntime
	if len(cfg.Scripts) > 0 {
		rt, err := functions.NewScriptRuntime(cfg.ScriptTimeout, logger)
		if err != nil {
			return env, err
		}
		for _, path := range cfg.Scripts {
			if err := rt.LoadFile(path); err != nil {
				return env, err
			}
		}
		scripts = rt
	}

	source, err := cfg.Source.Open()
	if err != nil {
		return env, fmt.Errorf("source: %w", err)
	}
	target, err := cfg.Target.Open()
	if err != nil {
		return env, fmt.Errorf("target: %w", err)
	}

	env.Defaults = cache.NewManager(nil, logger)
	env.Functions = func(page legacy.Page) header.FunctionProcessor {
		opts := []functions.Option{functions.WithLogger(logger)}
		if scripts != nil {
			opts = append(opts, functions.WithScripts(scripts))
		}
		return functions.NewProcessor(page, opts...)
	}
	env.Assets = assets.NewTransferer(logger)
	env.Source = source
	env.Target = target
	env.Logger = logger

	return env, nil
}
