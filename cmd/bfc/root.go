package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"gobf/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "bfc",
	Short: "bfc compiles and runs tape machine programs",
	Long: `bfc translates programs written with the eight commands < > + - . , [ ]
into a flat instruction image and executes images on a growable byte tape.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log skipped source characters")
}

// loadConfig reads the --config file and applies --verbose on top of it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}
