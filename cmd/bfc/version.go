package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gobf/pkg/bytecode"
)

const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of bfc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bfc version %s (image format v%d)\n", Version, bytecode.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
