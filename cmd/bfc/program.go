package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gobf/pkg/bytecode"
	"gobf/pkg/compiler"
	"gobf/pkg/config"
	"gobf/pkg/machine"
	"gobf/pkg/utils"
)

const imageExt = ".bin"

// loadProgram returns the instructions for path. Images ending in .bin are
// decoded; anything else is read as source and compiled.
func loadProgram(path string, cfg *config.Config) ([]machine.Instruction, error) {
	if strings.EqualFold(filepath.Ext(path), imageExt) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		program, err := bytecode.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return program, nil
	}

	units, err := utils.LoadUnits([]string{path}, true)
	if err != nil {
		return nil, err
	}
	return compileUnit(units[0], cfg)
}

func compileUnit(u utils.Unit, cfg *config.Config) ([]machine.Instruction, error) {
	program, err := compiler.Compile(u.Source, 0, compiler.WithLogger(utils.NewLogger(cfg.Verbose)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", u.Name, err)
	}
	return program, nil
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + imageExt
	}
	return strings.TrimSuffix(inPath, ext) + imageExt
}
