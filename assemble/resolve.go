package assemble

import (
	apperrors "github.com/flumehq/flume/errors"
)

// Resolve returns a copy of def with every pipeline-reference stage
// replaced by the referenced definition's stages, recursively. defs is
// the reference universe, normally a LoadDir result. A reference chain
// that revisits a definition fails with a cycle error naming the path.
func Resolve(def *Definition, defs map[string]*Definition) (*Definition, error) {
	stack := make(map[string]bool)
	stages, err := resolveStages(def, defs, stack, []string{def.Name})
	if err != nil {
		return nil, err
	}
	return &Definition{Name: def.Name, Stages: stages}, nil
}

func resolveStages(def *Definition, defs map[string]*Definition, stack map[string]bool, path []string) ([]Stage, error) {
	if stack[def.Name] {
		return nil, apperrors.Cycle(path)
	}
	stack[def.Name] = true
	defer delete(stack, def.Name)

	out := make([]Stage, 0, len(def.Stages))
	for _, st := range def.Stages {
		if st.Pipeline == "" {
			out = append(out, st)
			continue
		}
		sub, ok := defs[st.Pipeline]
		if !ok {
			return nil, apperrors.NotFound("definition", st.Pipeline)
		}
		inlined, err := resolveStages(sub, defs, stack, append(path, st.Pipeline))
		if err != nil {
			return nil, err
		}
		out = append(out, inlined...)
	}
	return out, nil
}
