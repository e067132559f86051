// Package strengthen collects small string helpers for the ambient term
// package that don't warrant their own module.
package strengthen

import "strings"

// StrCat concatenates strings with a single pre-sized allocation.
// Pays off once the argument count exceeds two or three.
func StrCat(sv ...string) string {
	var sb strings.Builder
	var size int
	for _, s := range sv {
		size += len(s)
	}
	sb.Grow(size)
	for _, s := range sv {
		_, _ = sb.WriteString(s)
	}
	return sb.String()
}

// SimpleAtob parses loose boolean spellings used in environment variables.
func SimpleAtob(s string, dv bool) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	}
	return dv
}
