package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is overridable at build time:
// go build -ldflags "-X main.version=v1.2.3"
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the build version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "job_agent %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
