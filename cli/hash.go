package cli

import (
	"fmt"

	"imagereader/imagereader"

	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash PATH...",
	Short: "Print the cache key for each path",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, p := range args {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", imagereader.HashFilename(p), p)
		}
	},
}
