package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"gobf/pkg/bytecode"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <file>",
	Short: "Print the instruction listing of a source file or .bin image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		program, err := loadProgram(args[0], cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), bytecode.Disassemble(program))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}
