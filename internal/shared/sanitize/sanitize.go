// Package sanitize neutralizes client-supplied free text before it is
// persisted or echoed back. This is a security control (stored XSS), not a
// formatting concern: every free-text field passes through Clean exactly once
// on the way in.
package sanitize

import (
	"html"
	"strings"
)

// Clean trims surrounding whitespace and escapes HTML metacharacters.
func Clean(s string) string {
	return html.EscapeString(strings.TrimSpace(s))
}

// CleanPtr sanitizes optional text, mapping blank input to nil.
func CleanPtr(s *string) *string {
	if s == nil {
		return nil
	}
	cleaned := Clean(*s)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
