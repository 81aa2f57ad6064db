// Package normalize canonicalizes form and query values before they are
// compared or stored.
package normalize

import "strings"

// Email trims and lowercases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses runs of whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status trims and lowercases a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query-string value without changing case.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Filter lowercases a select-box filter value and maps "all" to "" (no filter).
func Filter(s string) string {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "all" {
		return ""
	}
	return v
}
