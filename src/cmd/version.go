package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time:
//
//	go build -ldflags "-X github.com/taxops/gstledger/src/cmd.version=v1.2.0"
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gstledger version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gstledger %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
