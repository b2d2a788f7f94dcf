package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Build metadata, stamped with -ldflags at release time.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print histlens version and build metadata",
	RunE:  versionCommand,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func versionCommand(cmd *cobra.Command, args []string) error {
	fmt.Printf("histlens %s\n", Version)
	fmt.Printf("  commit %s, built %s, %s %s/%s\n",
		GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}
