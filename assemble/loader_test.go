package assemble

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/flumehq/flume/errors"
)

func TestParse(t *testing.T) {
	def, err := Parse([]byte(`
name: ingest
stages:
  - component: file-source
    params:
      path: events.ndjson
  - pipeline: common-transform
  - component: redis-sink
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "ingest" {
		t.Errorf("Name = %q, want ingest", def.Name)
	}
	if len(def.Stages) != 3 {
		t.Fatalf("expected 3 stages, got %d", len(def.Stages))
	}
	if def.Stages[0].Params["path"] != "events.ndjson" {
		t.Errorf("params = %v", def.Stages[0].Params)
	}
	if def.Stages[1].Pipeline != "common-transform" {
		t.Errorf("Pipeline = %q", def.Stages[1].Pipeline)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		code apperrors.ErrorCode
	}{
		{
			name: "malformed yaml",
			yaml: "name: [unclosed",
			code: apperrors.ErrCodeInvalidFormat,
		},
		{
			name: "missing name",
			yaml: "stages:\n  - component: a\n",
			code: apperrors.ErrCodeInvalidInput,
		},
		{
			name: "no stages",
			yaml: "name: empty\n",
			code: apperrors.ErrCodeInvalidInput,
		},
		{
			name: "stage with neither component nor pipeline",
			yaml: "name: x\nstages:\n  - params: {}\n",
			code: apperrors.ErrCodeInvalidInput,
		},
		{
			name: "stage with both component and pipeline",
			yaml: "name: x\nstages:\n  - component: a\n    pipeline: b\n",
			code: apperrors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := apperrors.CodeOf(err); got != tt.code {
				t.Errorf("code = %v, want %v (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipe.yaml")
	content := "name: pipe\nstages:\n  - component: src\n  - component: snk\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	def, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if def.Name != "pipe" || len(def.Stages) != 2 {
		t.Fatalf("def = %+v", def)
	}
}

func TestLoadFile_NotFound(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"first.yaml":     "name: first\nstages:\n  - component: a\n",
		"sub/second.yml": "name: second\nstages:\n  - component: b\n",
		"notes.txt":      "not a definition",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	defs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs["first"] == nil || defs["second"] == nil {
		t.Fatalf("defs = %v", defs)
	}
}

func TestLoadDir_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	content := "name: same\nstages:\n  - component: a\n"
	for _, name := range []string{"one.yaml", "two.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	_, err := LoadDir(dir)
	if apperrors.CodeOf(err) != apperrors.ErrCodeAlreadyExists {
		t.Fatalf("error = %v, want ALREADY_EXISTS", err)
	}
}

func TestResolve(t *testing.T) {
	defs := map[string]*Definition{
		"common": {
			Name: "common",
			Stages: []Stage{
				{Component: "normalize"},
				{Component: "dedupe"},
			},
		},
	}
	def := &Definition{
		Name: "main",
		Stages: []Stage{
			{Component: "source"},
			{Pipeline: "common"},
			{Component: "sink"},
		},
	}

	resolved, err := Resolve(def, defs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"source", "normalize", "dedupe", "sink"}
	if len(resolved.Stages) != len(want) {
		t.Fatalf("got %d stages, want %d", len(resolved.Stages), len(want))
	}
	for i, w := range want {
		if resolved.Stages[i].Component != w {
			t.Errorf("stages[%d] = %q, want %q", i, resolved.Stages[i].Component, w)
		}
	}
	// Original definition is untouched.
	if len(def.Stages) != 3 {
		t.Errorf("input definition mutated: %d stages", len(def.Stages))
	}
}

func TestResolve_Nested(t *testing.T) {
	defs := map[string]*Definition{
		"inner": {
			Name:   "inner",
			Stages: []Stage{{Component: "leaf"}},
		},
		"outer": {
			Name: "outer",
			Stages: []Stage{
				{Pipeline: "inner"},
				{Component: "wrap"},
			},
		},
	}
	def := &Definition{
		Name:   "main",
		Stages: []Stage{{Pipeline: "outer"}},
	}

	resolved, err := Resolve(def, defs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resolved.Stages) != 2 || resolved.Stages[0].Component != "leaf" || resolved.Stages[1].Component != "wrap" {
		t.Fatalf("stages = %+v", resolved.Stages)
	}
}

func TestResolve_Cycle(t *testing.T) {
	defs := map[string]*Definition{
		"alpha": {
			Name:   "alpha",
			Stages: []Stage{{Pipeline: "beta"}},
		},
		"beta": {
			Name:   "beta",
			Stages: []Stage{{Pipeline: "alpha"}},
		},
	}

	_, err := Resolve(defs["alpha"], defs)
	if apperrors.CodeOf(err) != apperrors.ErrCodeCycle {
		t.Fatalf("error = %v, want PIPELINE_CYCLE", err)
	}
}

func TestResolve_SelfReference(t *testing.T) {
	defs := map[string]*Definition{
		"loop": {
			Name:   "loop",
			Stages: []Stage{{Pipeline: "loop"}},
		},
	}

	_, err := Resolve(defs["loop"], defs)
	if apperrors.CodeOf(err) != apperrors.ErrCodeCycle {
		t.Fatalf("error = %v, want PIPELINE_CYCLE", err)
	}
}

func TestResolve_MissingReference(t *testing.T) {
	def := &Definition{
		Name:   "main",
		Stages: []Stage{{Pipeline: "ghost"}},
	}

	_, err := Resolve(def, map[string]*Definition{})
	if apperrors.CodeOf(err) != apperrors.ErrCodeNotFound {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}
