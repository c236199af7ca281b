package util

import (
	"strings"
	"unicode"
)

// SanitizeString strips surrounding whitespace and drops control
// characters. Line sources offer it as an option for normalizing text
// pulled from untrusted inputs before it reaches downstream transforms.
func SanitizeString(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

// SanitizeEnvValue cleans an environment variable value by removing
// surrounding quotes and trimming whitespace. Shells strip quotes before
// a process sees the value, but docker --env-file and systemd
// EnvironmentFile pass them through literally.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
