package pageheader

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/contentmigrate/pageheader/cmd/pageheader/commands/cmdutil"
	"github.com/contentmigrate/pageheader/header"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/migrate"
	"github.com/contentmigrate/pageheader/modern"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultSelector selects the pages of a site export.
const DefaultSelector = "$.pages[*]"

var (
	batchFlags      runFlags
	batchSelectFlag string
	batchOutFlag    string
)

var batchCmd = &cobra.Command{
	Use:   "batch [<export>]",
	Short: "Transform the headers of every page in a site export",
	Long: `Transform the headers of every page in a site export.

The export is a YAML document holding page documents. The pages are selected
with a JSONPath expression (RFC 9535) and transformed concurrently. The
resulting headers are written as YAML and a summary is printed to stderr.
The command fails when any page could not be transformed.`,
	Args: cobra.RangeArgs(0, 1),
	Run:  RunBatch,
	Example: `  # Transform every page of an export
  pageheader batch --config pageheader.yaml export.yaml --out headers.yaml

  # Only transform pages using the ArticleLeft layout
  pageheader batch --config pageheader.yaml export.yaml \
    --select '$.pages[?@.pageLayout == "/sites/a/_catalogs/masterpage/ArticleLeft.aspx"]'`,
}

func init() {
	batchFlags.register(batchCmd)
	batchCmd.Flags().StringVar(&batchSelectFlag, "select", DefaultSelector, "JSONPath selecting the pages in the export")
	batchCmd.Flags().StringVarP(&batchOutFlag, "out", "o", "", "Output file path (defaults to stdout)")
}

func RunBatch(cmd *cobra.Command, args []string) {
	cfg, err := batchFlags.settings()
	if err != nil {
		cmdutil.Die(err)
	}
	logger := logging.NewStderr(cfg.Level())

	env, err := environment(cfg, logger)
	if err != nil {
		cmdutil.Die(err)
	}

	exportFile := cmdutil.InputFileFromArgs(args)
	in, err := cmdutil.OpenInput(exportFile)
	if err != nil {
		cmdutil.Die(err)
	}
	data, err := io.ReadAll(in)
	in.Close()
	if err != nil {
		cmdutil.Dief("Failed to read export %q: %v", exportFile, err)
	}

	results, err := runBatch(cmd.Context(), env, cfg.Concurrency, data, batchSelectFlag)
	if err != nil {
		cmdutil.Dief("Failed to transform export %q: %v", exportFile, err)
	}

	out, err := cmdutil.CreateOutput(batchOutFlag)
	if err != nil {
		cmdutil.Die(err)
	}
	defer out.Close()

	if err := writeResults(out, results); err != nil {
		cmdutil.Dief("Failed to write results: %v", err)
	}

	summary := migrate.Summarize(results)
	fmt.Fprintln(os.Stderr, renderSummary(summary, len(results)))

	if summary.Failed > 0 {
		cmdutil.Dief("%d of %d pages failed", summary.Failed, len(results))
	}
}

func runBatch(ctx context.Context, env header.Config, concurrency int, data []byte, selector string) ([]migrate.Result, error) {
	docs, err := legacy.SelectDocuments(data, selector)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no pages selected by %q", selector)
	}

	pages := make([]legacy.Page, len(docs))
	for i, d := range docs {
		pages[i] = d
	}

	runner, err := migrate.NewRunner(env, concurrency)
	if err != nil {
		return nil, err
	}
	return runner.Run(ctx, pages)
}

type resultEntry struct {
	Name    string             `yaml:"name"`
	Outcome header.Outcome     `yaml:"outcome,omitempty"`
	Header  *modern.PageHeader `yaml:"header,omitempty"`
	Error   string             `yaml:"error,omitempty"`
}

func writeResults(w io.Writer, results []migrate.Result) error {
	entries := make([]resultEntry, len(results))
	for i, r := range results {
		entries[i] = resultEntry{Name: r.Name, Outcome: r.Outcome, Header: r.Header}
		if r.Err != nil {
			entries[i].Error = r.Err.Error()
		}
	}

	buf := bytes.NewBuffer([]byte{})
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any{"results": entries}); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
