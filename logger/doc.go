// Package logger provides structured logging for flume pipelines
// using zerolog.
//
// Output is JSON by default, or a console format for development, with
// the level set through config. Every logger carries structured fields;
// pipeline runs are tagged with pipeline name and run ID via
// WithPipeline, and adapters tag themselves via WithComponent.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("kafka.source")
//	log.Info("consumed", logger.Fields("topic", "events", "items", 10))
package logger
