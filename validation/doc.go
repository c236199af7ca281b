// Package validation provides input validation for pipeline definitions
// and adapter configurations.
//
// It supports both struct tag validation (using the validator library)
// and programmatic validation with error collection. Struct tag
// validation is the convention for YAML-loaded definitions.
//
// # Validating tagged structs
//
//	type Definition struct {
//	    Name   string  `yaml:"name" validate:"required"`
//	    Stages []Stage `yaml:"stages" validate:"required,min=1,dive"`
//	}
//	err := validation.Validate(def)
//
// # Building checks in code
//
//	v := validation.New()
//	v.Required("name", cfg.Name).Min("batch_size", cfg.BatchSize, 1)
//	if appErr := v.Validate(); appErr != nil {
//	    return appErr
//	}
package validation
