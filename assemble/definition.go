package assemble

// Definition describes a pipeline as an ordered list of stages, from
// source to sink.
type Definition struct {
	// Name is the definition identifier, used by pipeline references.
	Name string `yaml:"name" validate:"required"`
	// Stages are composed in order with conduit.Connect.
	Stages []Stage `yaml:"stages" validate:"required,min=1,dive"`
}

// Stage is one entry in a definition: either a registered component
// with its params, or a reference to another definition that Resolve
// inlines in place.
type Stage struct {
	// Component is the registry lookup key for this stage.
	Component string `yaml:"component,omitempty" validate:"required_without=Pipeline,excluded_with=Pipeline"`
	// Pipeline references another definition by name.
	Pipeline string `yaml:"pipeline,omitempty"`
	// Params is passed to the component's factory.
	Params map[string]any `yaml:"params,omitempty"`
}
