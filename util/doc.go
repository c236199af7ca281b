// Package util provides small generic helpers shared across the toolkit:
// slice and map operations, pointer helpers, size parsing for
// human-readable option values, string sanitization, and validation
// helpers.
package util
