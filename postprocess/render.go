// Package postprocess turns the pieces produced by one generation cycle
// into the final string.
package postprocess

import (
	"regexp"
	"strings"
)

var multiSpace = regexp.MustCompile(`[ ][ ]+`)

// fixes run in order, each as a plain substring pass over the whole output.
var fixes = [][2]string{
	{"a e", "an e"},
	{"a a", "an a"},
	{"a o", "an o"},
	{"a i", "an i"},
	{"a u", "an u"},
	{"A e", "An e"},
	{"A a", "An a"},
	{"A o", "An o"},
	{"A i", "An i"},
	{"A u", "An u"},
	{"eing", "ing"},
}

// Render joins pieces with no separator, trims the result, collapses runs
// of spaces and fixes indefinite articles and "eing" endings.
func Render(pieces []string) string {
	s := strings.TrimSpace(strings.Join(pieces, ""))
	s = multiSpace.ReplaceAllString(s, " ")
	for _, fix := range fixes {
		s = strings.ReplaceAll(s, fix[0], fix[1])
	}
	return s
}
