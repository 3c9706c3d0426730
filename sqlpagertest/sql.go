package sqlpagertest

import (
	"regexp"
	"strings"
)

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeSQL collapses runs of whitespace and lowercases sql so that
// generated statements can be compared regardless of layout.
func NormalizeSQL(sql string) string {
	return strings.ToLower(strings.TrimSpace(whitespace.ReplaceAllString(sql, " ")))
}
