package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gobf/pkg/bytecode"
	"gobf/pkg/utils"
)

var buildCmd = &cobra.Command{
	Use:   "build <source>",
	Short: "Compile a source file into a .bin image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		units, err := utils.LoadUnits(args, true)
		if err != nil {
			return err
		}
		program, err := compileUnit(units[0], cfg)
		if err != nil {
			return err
		}
		image, err := bytecode.Encode(program)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("out")
		if output == "" {
			output = defaultOutputPath(args[0])
		}
		if err := os.WriteFile(output, image, 0o644); err != nil {
			return fmt.Errorf("write image %q: %w", output, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "compiled %d instructions (%d bytes) -> %s\n", len(program), len(image), output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().StringP("out", "o", "", "output image path (default: input with .bin extension)")
}
