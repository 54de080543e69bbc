package templates

import (
	"strconv"
	"strings"
)

// prefixedStrings renders "T0, T1, ..." for n type parameters.
func prefixedStrings(prefix string, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = prefix + strconv.Itoa(i)
	}
	return strings.Join(parts, ", ")
}
