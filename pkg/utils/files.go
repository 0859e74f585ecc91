package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// Unit is one independently compiled piece of source.
type Unit struct {
	Name   string
	Source string
}

// LoadUnits turns command-line arguments into source units. With fromFiles
// each argument is a path whose contents become the source; otherwise the
// argument text is the source itself.
func LoadUnits(args []string, fromFiles bool) ([]Unit, error) {
	units := make([]Unit, 0, len(args))
	for i, arg := range args {
		if !fromFiles {
			units = append(units, Unit{Name: fmt.Sprintf("arg%d", i+1), Source: arg})
			continue
		}

		fullPath, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, fmt.Errorf("read source %q: %w", arg, err)
		}
		units = append(units, Unit{Name: arg, Source: string(data)})
	}
	return units, nil
}
