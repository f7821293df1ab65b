package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	pageheaderCmd "github.com/contentmigrate/pageheader/cmd/pageheader/commands/pageheader"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// getVersionInfo returns version information, prioritizing ldflags values over build info
func getVersionInfo() (string, string, string) {
	if version != "dev" || commit != "none" || date != "unknown" {
		return version, commit, date
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return version, commit, date
	}

	moduleVersion := version
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		moduleVersion = buildInfo.Main.Version
	}

	vcsCommit := commit
	vcsTime := date

	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if len(setting.Value) >= 7 {
				vcsCommit = setting.Value[:7] // Short commit hash
			} else {
				vcsCommit = setting.Value
			}
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	return moduleVersion, vcsCommit, vcsTime
}

var rootCmd = &cobra.Command{
	Use:   "pageheader",
	Short: "Migrate the headers of legacy publishing pages to modern page headers",
	Long: `Migrate the headers of legacy publishing pages to modern page headers.

A mapping file tells, per page layout, whether the modern page drops its
header, keeps the default header or gets a custom header built from the page
image, its alignment and layout, and where the topic, alternative text and
authors come from. Page layouts without a mapping get a full width custom
header fed by the publishing page image.

Header images are copied into the target web's SiteAssets/SitePages library.
A page whose image cannot be copied falls back to the default header.`,
	Version: version,
}

func init() {
	currentVersion, currentCommit, currentDate := getVersionInfo()

	rootCmd.Version = currentVersion

	var versionTemplate strings.Builder
	versionTemplate.WriteString(`{{printf "%s" .Version}}`)

	if currentCommit != "none" && currentCommit != "" {
		versionTemplate.WriteString("\nBuild: " + currentCommit)
	}

	if currentDate != "unknown" && currentDate != "" {
		versionTemplate.WriteString("\nBuilt: " + currentDate)
	}

	rootCmd.SetVersionTemplate(versionTemplate.String())

	pageheaderCmd.Apply(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
