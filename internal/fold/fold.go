// Package fold compares strings under Unicode case folding.
package fold

import (
	"strings"

	"golang.org/x/text/cases"
)

// String returns the case folded form of s. A Caser holds state, so a new one
// is built for every call.
func String(s string) string {
	return cases.Fold().String(s)
}

func Equal(a, b string) bool {
	return String(a) == String(b)
}

// HasPrefix reports whether s begins with prefix, ignoring case.
func HasPrefix(s, prefix string) bool {
	return strings.HasPrefix(String(s), String(prefix))
}
