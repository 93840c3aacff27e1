package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Deadbeetle/helper-streambufs/cmd/streambuf/internal/build"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if formatOutput != "" {
			return outputTo(cmd.OutOrStdout(), build.Get())
		}
		fmt.Fprintln(cmd.OutOrStdout(), build.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
