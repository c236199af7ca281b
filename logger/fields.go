package logger

import (
	"time"
)

// Field keys shared across the toolkit. Pipes, adapters, and the app
// shell all log with these names so one query matches every component.
const (
	FieldComponent = "component"
	FieldTraceID   = "trace_id"
	FieldSpanID    = "span_id"
	FieldRunID     = "run_id"
	FieldPipeline  = "pipeline"
	FieldStage     = "stage"
	FieldOperation = "operation"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldItems     = "items"
	FieldTopic     = "topic"
	FieldKey       = "key"
	FieldPath      = "path"
)

// Fields builds a field map from alternating key-value pairs. Keys that
// are not strings are skipped along with their values.
//
//	logger.Info("done", logger.Fields("op", "drain", "items", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields names the operation that failed alongside its error.
func ErrorFields(op string, err error) map[string]interface{} {
	return Fields(FieldOperation, op, FieldError, err.Error())
}

// DurationFields names a timed operation alongside its elapsed time.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return Fields(FieldOperation, op, FieldDuration, d.Milliseconds())
}

// MergeWithError adds the error field to fields, allocating the map if nil.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	return mergeField(fields, FieldError, err.Error())
}

// MergeWithDuration adds the duration field to fields, allocating the map if nil.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	return mergeField(fields, FieldDuration, d.Milliseconds())
}

func mergeField(fields map[string]interface{}, key string, value interface{}) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields[key] = value
	return fields
}
