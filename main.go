//go:build !js

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/tebeka/atexit"

	"gobf/pkg/compiler"
	"gobf/pkg/config"
	"gobf/pkg/machine"
	"gobf/pkg/utils"
)

// configEnv names an optional YAML config file. Settings live there rather
// than in flags so that every argument, including ones starting with '-',
// stays a program.
const configEnv = "GOBF_CONFIG"

func main() {
	out := bufio.NewWriter(os.Stdout)
	atexit.Register(func() { _ = out.Flush() })

	code := run(os.Args[1:], os.Getenv(configEnv), bufio.NewReader(os.Stdin), out, os.Stderr)
	atexit.Exit(code)
}

// run compiles and evaluates each argument in order against one machine and
// returns the process exit code.
func run(args []string, configPath string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	policy, err := cfg.UnderflowPolicy()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	logger := utils.NewLogger(cfg.Verbose)

	units, err := utils.LoadUnits(args, false)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	vm := machine.NewMachine()
	vm.Input = stdin
	vm.Output = stdout
	vm.Underflow = policy

	for _, u := range units {
		program, err := compiler.Compile(u.Source, 0, compiler.WithLogger(logger))
		if err != nil {
			fmt.Fprintf(stderr, "%s: compile failed: %v\n", u.Name, err)
			return 1
		}
		if err := machine.Eval(program, vm); err != nil {
			fmt.Fprintf(stderr, "%s: run failed: %v\n", u.Name, err)
			return 1
		}
	}
	return 0
}
