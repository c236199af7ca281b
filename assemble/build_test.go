package assemble

import (
	"strings"
	"testing"

	"github.com/flumehq/flume/conduit"
	apperrors "github.com/flumehq/flume/errors"
	"github.com/flumehq/flume/kafka"
	"github.com/flumehq/flume/operators"
)

func testRegistry() *Registry {
	reg := NewRegistry()
	reg.Register("numbers", func(map[string]any) (*conduit.Pipe, error) {
		return operators.FromSlice([]any{1, 2, 3}), nil
	})
	reg.Register("double", func(map[string]any) (*conduit.Pipe, error) {
		return operators.Map(func(item any) any { return item.(int) * 2 }), nil
	})
	reg.Register("collect", func(map[string]any) (*conduit.Pipe, error) {
		return operators.Collect(), nil
	})
	return reg
}

func doublerDef() *Definition {
	return &Definition{
		Name: "doubler",
		Stages: []Stage{
			{Component: "numbers"},
			{Component: "double"},
			{Component: "collect"},
		},
	}
}

func TestRegistry(t *testing.T) {
	reg := testRegistry()

	if _, ok := reg.Get("double"); !ok {
		t.Error("expected double to be registered")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("expected missing lookup to fail")
	}

	want := []string{"collect", "double", "numbers"}
	got := reg.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("List()[%d] = %q, want %q", i, got[i], w)
		}
	}
}

func TestBuild(t *testing.T) {
	p, err := testRegistry().Build(doublerDef())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := p.Result()
	if err != nil {
		t.Fatal(err)
	}
	items, err := operators.CollectAs[int](result)
	if err != nil {
		t.Fatal(err)
	}
	want := []int{2, 4, 6}
	if len(items) != len(want) {
		t.Fatalf("items = %v, want %v", items, want)
	}
	for i, w := range want {
		if items[i] != w {
			t.Errorf("items[%d] = %d, want %d", i, items[i], w)
		}
	}
}

func TestBuild_WithDecorator(t *testing.T) {
	var wrapped []string

	p, err := testRegistry().Build(doublerDef(), WithDecorator(func(stage string, p *conduit.Pipe) *conduit.Pipe {
		wrapped = append(wrapped, stage)
		return p
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Result(); err != nil {
		t.Fatal(err)
	}

	want := []string{"numbers", "double", "collect"}
	if len(wrapped) != len(want) {
		t.Fatalf("wrapped = %v, want %v", wrapped, want)
	}
	for i, w := range want {
		if wrapped[i] != w {
			t.Errorf("wrapped[%d] = %q, want %q", i, wrapped[i], w)
		}
	}
}

func TestBuild_MissingComponent(t *testing.T) {
	def := &Definition{
		Name:   "broken",
		Stages: []Stage{{Component: "ghost"}},
	}

	_, err := testRegistry().Build(def)
	if apperrors.CodeOf(err) != apperrors.ErrCodeNotFound {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}

func TestBuild_UnresolvedReference(t *testing.T) {
	def := &Definition{
		Name: "unresolved",
		Stages: []Stage{
			{Component: "numbers"},
			{Pipeline: "common"},
		},
	}

	_, err := testRegistry().Build(def)
	if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidInput {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
}

func TestBuild_FactoryError(t *testing.T) {
	reg := NewRegistry()
	reg.Register("bad", func(map[string]any) (*conduit.Pipe, error) {
		return nil, apperrors.MissingField("topic")
	})

	def := &Definition{
		Name:   "failing",
		Stages: []Stage{{Component: "bad"}},
	}

	_, err := reg.Build(def)
	if err == nil {
		t.Fatal("expected factory error")
	}
	if !strings.Contains(err.Error(), "stage bad") {
		t.Errorf("error = %v, want stage name", err)
	}
	if apperrors.CodeOf(err) != apperrors.ErrCodeMissingField {
		t.Errorf("code = %v, want MISSING_FIELD", apperrors.CodeOf(err))
	}
}

func TestBuild_InvalidDefinition(t *testing.T) {
	_, err := testRegistry().Build(&Definition{Name: "empty"})
	if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidInput {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
}

func TestDecodeParams(t *testing.T) {
	type stageConfig struct {
		Path    string `mapstructure:"path"`
		Retries int    `mapstructure:"retries"`
	}

	var cfg stageConfig
	err := DecodeParams(map[string]any{"path": "in.txt", "retries": "7"}, &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path != "in.txt" {
		t.Errorf("Path = %q", cfg.Path)
	}
	// Weak typing coerces the YAML string into the int field.
	if cfg.Retries != 7 {
		t.Errorf("Retries = %d, want 7", cfg.Retries)
	}
}

func TestDecodeParams_AdapterConfig(t *testing.T) {
	var cfg kafka.Config
	err := DecodeParams(map[string]any{
		"brokers":       []any{"localhost:9092"},
		"topic":         "events",
		"batch_timeout": "250ms",
	}, &cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != "localhost:9092" {
		t.Errorf("Brokers = %v", cfg.Brokers)
	}
	if cfg.Topic != "events" {
		t.Errorf("Topic = %q", cfg.Topic)
	}
	if cfg.BatchTimeout != "250ms" {
		t.Errorf("BatchTimeout = %q", cfg.BatchTimeout)
	}
}

func TestDecodeParams_BadValue(t *testing.T) {
	type stageConfig struct {
		Retries int `mapstructure:"retries"`
	}

	var cfg stageConfig
	err := DecodeParams(map[string]any{"retries": "plenty"}, &cfg)
	if apperrors.CodeOf(err) != apperrors.ErrCodeInvalidInput {
		t.Fatalf("error = %v, want INVALID_INPUT", err)
	}
}
