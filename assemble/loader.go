package assemble

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	apperrors "github.com/flumehq/flume/errors"
	"github.com/flumehq/flume/validation"
)

// Parse parses and validates a single YAML definition.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, apperrors.InvalidFormat("definition", "yaml").WithCause(err)
	}
	if err := validation.Validate(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// LoadFile loads one definition from a YAML file.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("assemble: reading %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("assemble: parsing %s: %w", path, err)
	}
	return def, nil
}

// LoadDir loads every .yaml/.yml definition under dir (recursively),
// keyed by definition name. Two files claiming the same name is an
// error.
func LoadDir(dir string) (map[string]*Definition, error) {
	defs := make(map[string]*Definition)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(path); ext != ".yaml" && ext != ".yml" {
			return nil
		}
		def, err := LoadFile(path)
		if err != nil {
			return err
		}
		if _, exists := defs[def.Name]; exists {
			return apperrors.AlreadyExists("definition").WithDetail("name", def.Name)
		}
		defs[def.Name] = def
		return nil
	})
	if err != nil {
		return nil, err
	}
	return defs, nil
}
