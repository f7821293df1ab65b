package pageheader

import (
	"fmt"

	"github.com/contentmigrate/pageheader/cmd/pageheader/commands/cmdutil"
	"github.com/contentmigrate/pageheader/mapping"
	"github.com/spf13/cobra"
)

var defaultMappingCmd = &cobra.Command{
	Use:   "default-mapping <layout>...",
	Short: "Print the mapping used for page layouts that have no mapping, as a starting point for a mapping file",
	Args:  cobra.MinimumNArgs(1),
	Run:   RunDefaultMapping,
	Example: `  # Start a mapping file for two layouts
  pageheader default-mapping ArticleLeft WelcomeSplash > mapping.yaml`,
}

func RunDefaultMapping(cmd *cobra.Command, args []string) {
	s, err := defaultMapping(args).ToString()
	if err != nil {
		cmdutil.Die(err)
	}
	fmt.Fprint(cmd.OutOrStdout(), s)
}

func defaultMapping(layouts []string) *mapping.Mapping {
	m := &mapping.Mapping{Version: mapping.LatestVersion}
	for _, name := range layouts {
		m.PageLayouts = append(m.PageLayouts, *mapping.DefaultPageLayout(name))
	}
	return m
}
