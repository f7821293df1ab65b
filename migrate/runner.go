// Package migrate transforms the headers of many legacy pages concurrently.
package migrate

import (
	"context"
	"fmt"

	"github.com/contentmigrate/pageheader/assets"
	"github.com/contentmigrate/pageheader/header"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/modern"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages transformed at once.
const DefaultConcurrency = 4

// Result is the header transformation of one page.
type Result struct {
	Name    string
	Outcome header.Outcome
	Header  *modern.PageHeader
	Err     error
}

// Runner runs a header transformation per page. Every page gets its own
// Transformer and PageHeader; only the configuration is shared, and it must
// not be modified while Run is in progress.
type Runner struct {
	cfg         header.Config
	concurrency int
	logger      logging.Logger
}

// NewRunner validates cfg up front so Run only fails on cancellation. A
// concurrency below one selects DefaultConcurrency. Without cfg.Assets all
// pages share one assets.Transferer.
func NewRunner(cfg header.Config, concurrency int) (*Runner, error) {
	if _, err := header.New(cfg); err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard
	}
	if cfg.Assets == nil {
		cfg.Assets = assets.NewTransferer(logger)
	}

	return &Runner{cfg: cfg, concurrency: concurrency, logger: logger}, nil
}

// Run transforms pages and returns one Result per page in input order. A page
// failing does not stop the others. The returned error is set only when ctx
// ends before every page was processed; those pages carry ctx's error.
func (r *Runner) Run(ctx context.Context, pages []legacy.Page) ([]Result, error) {
	results := make([]Result, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, page := range pages {
		results[i].Name = PageName(page, i)

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return nil
			}

			results[i] = r.transform(gctx, results[i].Name, page)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

func (r *Runner) transform(ctx context.Context, name string, page legacy.Page) Result {
	result := Result{Name: name}

	tr, err := header.New(r.cfg)
	if err != nil {
		result.Err = err
		return result
	}

	result.Header = modern.NewPageHeader()
	result.Outcome, result.Err = tr.TransformHeader(ctx, page, result.Header)
	if result.Err != nil {
		r.logger.Error(logging.CategoryBatch, fmt.Sprintf("page %s failed", name), result.Err)
		return result
	}

	r.logger.Info(logging.CategoryBatch, fmt.Sprintf("page %s: %s header", name, result.Outcome))
	return result
}

// PageName names page in reports: its display name when it has one, else its
// position in the batch.
func PageName(page legacy.Page, index int) string {
	if d, ok := page.(interface{ DisplayName() string }); ok {
		if name := d.DisplayName(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("page[%d]", index)
}

// Summary counts results by outcome. Failed pages are counted under Failed.
type Summary struct {
	Removed        int
	Default        int
	Custom         int
	CustomFallback int
	Failed         int
}

func Summarize(results []Result) Summary {
	var s Summary
	for _, r := range results {
		switch {
		case r.Err != nil:
			s.Failed++
		case r.Outcome == header.OutcomeRemoved:
			s.Removed++
		case r.Outcome == header.OutcomeDefault:
			s.Default++
		case r.Outcome == header.OutcomeCustom:
			s.Custom++
		case r.Outcome == header.OutcomeCustomFallback:
			s.CustomFallback++
		}
	}
	return s
}
