// Package command validates user-supplied values and builds argument vectors
// for the external package tools from a fixed template table.
package command

import (
	"regexp"
	"strings"
)

var (
	identifierPattern       = regexp.MustCompile(`^[a-zA-Z0-9.\-_ ]+$`)
	strictIdentifierPattern = regexp.MustCompile(`^[a-zA-Z0-9.\-_]+$`)
	queryRejectPattern      = regexp.MustCompile(`[;&|]`)
	unsafeCharsPattern      = regexp.MustCompile("[;&|<>`$()\\\\\"']")
)

// ValidateIdentifier reports whether v is an acceptable package identifier.
// The relaxed form allows spaces; strict does not and checks the trimmed value.
func ValidateIdentifier(v string, strict bool) bool {
	if strict {
		return strictIdentifierPattern.MatchString(strings.TrimSpace(v))
	}
	return identifierPattern.MatchString(v)
}

// ValidateQuery reports whether v can be used as a search query.
func ValidateQuery(v string) bool {
	if strings.TrimSpace(v) == "" {
		return false
	}
	return !queryRejectPattern.MatchString(v)
}

// Sanitize removes shell metacharacters and quotes from v.
func Sanitize(v string) string {
	return unsafeCharsPattern.ReplaceAllString(v, "")
}
