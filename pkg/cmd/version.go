package cmd

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/jzelinskie/cobrautil/v2"
	"github.com/spf13/cobra"
	"golang.org/x/mod/semver"
)

// CurrentVersion returns the current version of the binary.
func CurrentVersion() (string, error) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "", fmt.Errorf("failed to read BuildInfo because the program was compiled with Go %s", runtime.Version())
	}

	return cobrautil.VersionWithFallbacks(bi), nil
}

func RegisterVersionFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("include-deps", false, "include versions of dependencies")
}

func NewVersionCommand(programName string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "displays the version of " + programName,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			version, err := CurrentVersion()
			if err != nil {
				return err
			}
			if !semver.IsValid(version) {
				version += " (unreleased)"
			}
			cmd.Println(version)

			if !cobrautil.MustGetBool(cmd, "include-deps") {
				return nil
			}
			bi, _ := debug.ReadBuildInfo()
			for _, dep := range bi.Deps {
				if dep.Replace != nil {
					dep = dep.Replace
				}
				cmd.Printf("%s %s\n", dep.Path, dep.Version)
			}
			return nil
		},
	}
}
