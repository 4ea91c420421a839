package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// version is set via -ldflags "-X github.com/abhisek/placeprep/cmd.version=v1.2.3".
var version = ""

// buildVersion prefers the linker-set version, then the module version
// recorded by `go install`, then the VCS revision.
func buildVersion(info *debug.BuildInfo, ok bool) (v, revision string) {
	v = version
	if !ok {
		if v == "" {
			v = "(devel)"
		}
		return v, ""
	}
	if v == "" {
		v = info.Main.Version
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			revision = s.Value[:7]
		}
	}
	if v == "" {
		v = "(devel)"
	}
	return v, revision
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		info, ok := debug.ReadBuildInfo()
		v, rev := buildVersion(info, ok)
		out := cmd.OutOrStdout()
		if rev != "" {
			fmt.Fprintf(out, "placeprep %s (%s)\n", v, rev)
		} else {
			fmt.Fprintf(out, "placeprep %s\n", v)
		}
		if ok {
			fmt.Fprintf(out, "go %s\n", info.GoVersion)
		}
	},
}
