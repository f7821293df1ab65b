package pageheader

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/contentmigrate/pageheader/cmd/pageheader/commands/cmdutil"
	"github.com/contentmigrate/pageheader/header"
	"github.com/contentmigrate/pageheader/legacy"
	"github.com/contentmigrate/pageheader/logging"
	"github.com/contentmigrate/pageheader/modern"
	"github.com/spf13/cobra"
)

var (
	transformFlags   runFlags
	transformOutFlag string
)

var transformCmd = &cobra.Command{
	Use:   "transform [<page>]",
	Short: "Transform the header of a single legacy page and print the resulting modern header",
	Args:  cobra.RangeArgs(0, 1),
	Run:   RunTransform,
	Example: `  # Transform a page using a settings file
  pageheader transform --config pageheader.yaml page.yaml

  # Transform a page piped on stdin with explicit stores
  cat page.yaml | pageheader transform --mapping mapping.yaml \
    --source-root ./export --source-site https://contoso.sharepoint.com --source-web https://contoso.sharepoint.com/sites/a \
    --target-root ./modern --target-site https://contoso.sharepoint.com --target-web https://contoso.sharepoint.com/sites/news`,
}

func init() {
	transformFlags.register(transformCmd)
	transformCmd.Flags().StringVarP(&transformOutFlag, "out", "o", "", "Output file path (defaults to stdout)")
}

func RunTransform(cmd *cobra.Command, args []string) {
	cfg, err := transformFlags.settings()
	if err != nil {
		cmdutil.Die(err)
	}
	logger := logging.NewStderr(cfg.Level())

	env, err := environment(cfg, logger)
	if err != nil {
		cmdutil.Die(err)
	}

	pageFile := cmdutil.InputFileFromArgs(args)
	in, err := cmdutil.OpenInput(pageFile)
	if err != nil {
		cmdutil.Die(err)
	}
	defer in.Close()

	out, err := cmdutil.CreateOutput(transformOutFlag)
	if err != nil {
		cmdutil.Die(err)
	}
	defer out.Close()

	outcome, err := transformPage(cmd.Context(), env, in, out)
	if err != nil {
		cmdutil.Dief("Failed to transform page %q: %v", pageFile, err)
	}

	fmt.Fprintf(os.Stderr, "Page %q: %s header\n", pageFile, outcome)
}

// transformPage reads one page document from r and writes its new header to w.
func transformPage(ctx context.Context, env header.Config, r io.Reader, w io.Writer) (header.Outcome, error) {
	page, err := legacy.DecodeDocument(r)
	if err != nil {
		return "", err
	}

	tr, err := header.New(env)
	if err != nil {
		return "", err
	}

	h := modern.NewPageHeader()
	outcome, err := tr.TransformHeader(ctx, page, h)
	if err != nil {
		return "", err
	}

	s, err := h.ToString()
	if err != nil {
		return "", fmt.Errorf("failed to encode header: %w", err)
	}
	if _, err := io.WriteString(w, s); err != nil {
		return "", err
	}

	return outcome, nil
}
