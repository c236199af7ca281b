package assemble

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/flumehq/flume/conduit"
	apperrors "github.com/flumehq/flume/errors"
	"github.com/flumehq/flume/validation"
)

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	decorate func(stage string, p *conduit.Pipe) *conduit.Pipe
}

// WithDecorator wraps every instantiated stage pipe, typically with the
// conduit observation decorators (WithLogging, WithMetrics, WithTracing).
func WithDecorator(fn func(stage string, p *conduit.Pipe) *conduit.Pipe) BuildOption {
	return func(o *buildOptions) { o.decorate = fn }
}

// Build validates def, instantiates every stage through the registry and
// folds the pipes with conduit.Connect. Pipeline references must have
// been inlined by Resolve first. A definition whose stages run from
// source to sink yields the completed pipe, ready for Result.
func (r *Registry) Build(def *Definition, opts ...BuildOption) (*conduit.Pipe, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	if err := validation.Validate(def); err != nil {
		return nil, err
	}

	pipes := make([]*conduit.Pipe, 0, len(def.Stages))
	for i, st := range def.Stages {
		if st.Pipeline != "" {
			return nil, apperrors.InvalidInput("stages",
				fmt.Sprintf("stage %d references pipeline %q; resolve the definition first", i, st.Pipeline))
		}
		factory, ok := r.Get(st.Component)
		if !ok {
			return nil, apperrors.NotFound("component", st.Component)
		}
		p, err := factory(st.Params)
		if err != nil {
			return nil, fmt.Errorf("assemble: stage %s: %w", st.Component, err)
		}
		if o.decorate != nil {
			p = o.decorate(st.Component, p)
		}
		pipes = append(pipes, p)
	}
	return conduit.Connect(pipes...)
}

// DecodeParams decodes a stage's params into a typed config struct via
// its mapstructure tags, the tag set the adapter configs already carry.
// Scalars are coerced weakly, so YAML numbers fill string fields.
func DecodeParams(params map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return apperrors.Internal(err)
	}
	if err := dec.Decode(params); err != nil {
		return apperrors.InvalidInput("params", err.Error())
	}
	return nil
}
