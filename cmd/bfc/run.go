package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"

	"gobf/pkg/machine"
	"gobf/pkg/utils"
)

var runCmd = &cobra.Command{
	Use:   "run <file>...",
	Short: "Run source files or .bin images against one shared tape",
	Long: `Each argument is compiled (or decoded, for .bin images) and executed in order.
The tape and cursor carry over from one argument to the next.

Put "--" before programs that start with '-' so they are not read as flags:

  bfc run -e -- '-.' '+.'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		policy, err := cfg.UnderflowPolicy()
		if err != nil {
			return err
		}
		inline, _ := cmd.Flags().GetBool("eval")
		dumpTape, _ := cmd.Flags().GetBool("dump-tape")

		out := bufio.NewWriter(cmd.OutOrStdout())
		defer out.Flush()

		vm := machine.NewMachine()
		vm.Input = bufio.NewReader(cmd.InOrStdin())
		vm.Output = out
		vm.Underflow = policy

		for i, arg := range args {
			var program []machine.Instruction
			name := arg
			if inline {
				u := utils.Unit{Name: fmt.Sprintf("arg%d", i+1), Source: arg}
				name = u.Name
				program, err = compileUnit(u, cfg)
			} else {
				program, err = loadProgram(arg, cfg)
			}
			if err != nil {
				return err
			}

			if err := machine.Eval(program, vm); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}

		if dumpTape {
			if err := out.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "cursor=%d tape=% X\n", vm.Cursor, vm.Tape)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolP("eval", "e", false, "treat arguments as program text instead of file paths")
	runCmd.Flags().Bool("dump-tape", false, "print the final cursor and tape to stderr")
}
