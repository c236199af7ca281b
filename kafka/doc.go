// Package kafka provides Kafka-backed stream endpoints: a Source that
// emits one Message per downstream pull and a Sink that writes items and
// finishes with a SinkSummary. Both are deferred stages — brokers are
// only dialed once the pipeline actually runs — and both support TLS and
// SASL (PLAIN, SCRAM-SHA-256, SCRAM-SHA-512).
package kafka
