package validation

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "word-count")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("name", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestValidatorRequiredUUID(t *testing.T) {
	runID := uuid.New().String()

	v := New()
	v.RequiredUUID("run_id", runID)
	if v.HasErrors() {
		t.Errorf("expected no errors for valid UUID, got %v", v.Errors())
	}

	v2 := New()
	v2.RequiredUUID("run_id", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty UUID")
	}

	v3 := New()
	v3.RequiredUUID("run_id", "run-42")
	if !v3.HasErrors() {
		t.Error("expected error for invalid UUID")
	}

	v4 := New()
	v4.RequiredUUID("run_id", uuid.Nil.String())
	if !v4.HasErrors() {
		t.Error("expected error for nil UUID")
	}
}

func TestValidatorOptionalUUID(t *testing.T) {
	v := New()
	v.OptionalUUID("run_id", "")
	if v.HasErrors() {
		t.Error("expected no error for empty optional UUID")
	}

	v2 := New()
	v2.OptionalUUID("run_id", uuid.New().String())
	if v2.HasErrors() {
		t.Error("expected no error for valid optional UUID")
	}

	v3 := New()
	v3.OptionalUUID("run_id", "run-42")
	if !v3.HasErrors() {
		t.Error("expected error for invalid optional UUID")
	}
}

func TestValidatorMaxLength(t *testing.T) {
	v := New()
	v.MaxLength("name", "tokenize", 64)
	if v.HasErrors() {
		t.Error("expected no error for string within max length")
	}

	v2 := New()
	v2.MaxLength("name", "a-stage-name-well-past-the-limit", 8)
	if !v2.HasErrors() {
		t.Error("expected error for string exceeding max length")
	}
}

func TestValidatorMinLength(t *testing.T) {
	v := New()
	v.MinLength("topic", "events", 3)
	if v.HasErrors() {
		t.Error("expected no error for string meeting min length")
	}

	v2 := New()
	v2.MinLength("topic", "ev", 3)
	if !v2.HasErrors() {
		t.Error("expected error for string below min length")
	}
}

func TestValidatorRange(t *testing.T) {
	v := New()
	v.Range("batch_size", 100, 1, 10000)
	if v.HasErrors() {
		t.Error("expected no error for value in range")
	}

	v2 := New()
	v2.Range("batch_size", 0, 1, 10000)
	if !v2.HasErrors() {
		t.Error("expected error for value below range")
	}

	v3 := New()
	v3.Range("batch_size", 20000, 1, 10000)
	if !v3.HasErrors() {
		t.Error("expected error for value above range")
	}
}

func TestValidatorMinMax(t *testing.T) {
	v := New()
	v.Min("workers", 4, 1)
	v.Max("workers", 4, 32)
	if v.HasErrors() {
		t.Error("expected no errors")
	}

	v2 := New()
	v2.Min("workers", 0, 1)
	if !v2.HasErrors() {
		t.Error("expected error for value below min")
	}

	v3 := New()
	v3.Max("workers", 64, 32)
	if !v3.HasErrors() {
		t.Error("expected error for value above max")
	}
}

func TestValidatorPattern(t *testing.T) {
	v := New()
	v.Pattern("stage", "kafka-source", `^[a-z][a-z0-9-]*$`)
	if v.HasErrors() {
		t.Error("expected no error for matching pattern")
	}

	v2 := New()
	v2.Pattern("stage", "Kafka Source", `^[a-z][a-z0-9-]*$`)
	if !v2.HasErrors() {
		t.Error("expected error for non-matching pattern")
	}

	// An empty value is not a pattern violation.
	v3 := New()
	v3.Pattern("stage", "", `^[a-z][a-z0-9-]*$`)
	if v3.HasErrors() {
		t.Error("expected no error for empty value with pattern")
	}
}

func TestValidatorOneOf(t *testing.T) {
	offsets := []string{"earliest", "latest"}

	v := New()
	v.OneOf("start_offset", "earliest", offsets)
	if v.HasErrors() {
		t.Error("expected no error for valid oneOf value")
	}

	v2 := New()
	v2.OneOf("start_offset", "yesterday", offsets)
	if !v2.HasErrors() {
		t.Error("expected error for invalid oneOf value")
	}

	// An empty value is not a membership violation.
	v3 := New()
	v3.OneOf("start_offset", "", offsets)
	if v3.HasErrors() {
		t.Error("expected no error for empty oneOf value")
	}
}

func TestValidatorCustom(t *testing.T) {
	v := New()
	v.Custom(true, "stages", "should pass")
	if v.HasErrors() {
		t.Error("expected no error for true condition")
	}

	v2 := New()
	v2.Custom(false, "stages", "component and pipeline are mutually exclusive")
	if !v2.HasErrors() {
		t.Error("expected error for false condition")
	}
	if v2.Errors()[0].Message != "component and pipeline are mutually exclusive" {
		t.Errorf("unexpected message %q", v2.Errors()[0].Message)
	}
}

func TestValidatorValidate(t *testing.T) {
	v := New()
	v.Required("name", "word-count")
	appErr := v.Validate()
	if appErr != nil {
		t.Error("expected nil for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	v2.Required("component", "")
	appErr2 := v2.Validate()
	if appErr2 == nil {
		t.Fatal("expected error")
	}
	if appErr2.Details == nil {
		t.Fatal("expected details in error")
	}
	if !strings.Contains(appErr2.Message, "name") || !strings.Contains(appErr2.Message, "component") {
		t.Errorf("expected both fields in message, got %q", appErr2.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("name", "word-count").MaxLength("name", "word-count", 64).Min("workers", 4, 1)
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

func TestStructValidateValid(t *testing.T) {
	type stageDef struct {
		Component string `json:"component" validate:"required"`
		Topic     string `json:"topic" validate:"required,min=1"`
	}

	err := Validate(stageDef{Component: "kafka-source", Topic: "events"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	type stageDef struct {
		Component string `json:"component" validate:"required"`
		Topic     string `json:"topic" validate:"required,min=1"`
	}

	err := Validate(stageDef{Component: "", Topic: "events"})
	if err == nil {
		t.Fatal("expected validation error")
	}
	errStr := err.Error()
	if !strings.Contains(errStr, "component") {
		t.Errorf("expected error to mention 'component', got %q", errStr)
	}
}

func TestStructValidateMaxMin(t *testing.T) {
	type input struct {
		Name string `json:"name" validate:"required,min=3,max=64"`
	}

	if err := Validate(input{Name: "word-count"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}

	if err := Validate(input{Name: "wc"}); err == nil {
		t.Error("expected error for name too short")
	}
}

func TestValidateUUIDFunc(t *testing.T) {
	runID := uuid.New().String()
	id, err := ValidateUUID("run_id", runID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id.String() != runID {
		t.Errorf("expected %s, got %s", runID, id.String())
	}
}

func TestValidateUUIDFuncEmpty(t *testing.T) {
	_, err := ValidateUUID("run_id", "")
	if err == nil {
		t.Error("expected error for empty UUID")
	}
}

func TestValidateUUIDFuncInvalid(t *testing.T) {
	_, err := ValidateUUID("run_id", "run-42")
	if err == nil {
		t.Error("expected error for invalid UUID")
	}
}

func TestRequiredFunc(t *testing.T) {
	err := Required("name", "word-count")
	if err != nil {
		t.Errorf("expected nil, got %v", err)
	}

	err = Required("name", "")
	if err == nil {
		t.Error("expected error for empty required field")
	}
}
