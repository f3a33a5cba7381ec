package main

import (
	"fmt"
	"strings"

	annoor "github.com/An-Noor-Team/An-Noor-Store"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of annoor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "annoor version %s\n", strings.TrimSpace(annoor.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
