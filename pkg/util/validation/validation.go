// Package validation holds the shared go-playground validator instance.
package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validate is safe for concurrent use and caches struct metadata.
var Validate = validator.New()

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return Validate.Var(s, "email") == nil
}
