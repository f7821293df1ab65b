package pageheader

import (
	"fmt"
	"os"

	"github.com/contentmigrate/pageheader/cmd/pageheader/commands/cmdutil"
	"github.com/contentmigrate/pageheader/mapping/loader"
	"github.com/spf13/cobra"
)

var validateMappingFlag string

var validateCmd = &cobra.Command{
	Use:   "validate <mapping>",
	Short: "Given a mapping file, it will state whether it appears to be valid or describe the problems found",
	Args:  cobra.RangeArgs(0, 1),
	Run:   RunValidateMapping,
	Example: `  # Validate a mapping using positional argument
  pageheader validate mapping.yaml

  # Validate a mapping using flag
  pageheader validate --mapping mapping.yaml`,
}

func init() {
	validateCmd.Flags().StringVar(&validateMappingFlag, "mapping", "", "Path to the mapping file")
}

func RunValidateMapping(cmd *cobra.Command, args []string) {
	var mappingFile string
	if validateMappingFlag != "" {
		mappingFile = validateMappingFlag
	} else if len(args) > 0 {
		mappingFile = args[0]
	} else {
		cmdutil.Dief("mapping file is required (use --mapping flag or provide as first argument)")
	}

	m, err := loader.LoadMapping(mappingFile)
	if err != nil {
		cmdutil.Dief("Mapping file %q failed validation:\n%v", mappingFile, err)
	}

	fmt.Fprintf(os.Stderr, "Mapping file %q is valid (%d page layouts).\n", mappingFile, len(m.PageLayouts))
}
