package validate

import "strings"

// Required reports whether the value carries non-whitespace content. Signup
// fields are checked with it before any storage call.
func Required(value string) bool {
	return strings.TrimSpace(value) != ""
}
