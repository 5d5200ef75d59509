package normalize

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`\s+`)

// Key lowercases, collapses whitespace, and trims the input. It is the
// canonical form used for dimension natural keys, so "Apollo  Hospitals"
// and "apollo hospitals " land on the same warehouse row.
func Key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return multiSpace.ReplaceAllString(s, " ")
}
