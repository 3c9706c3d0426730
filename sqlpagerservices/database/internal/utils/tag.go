package utils

import (
	"reflect"
	"strings"
)

type DBTag struct {
	Column     string
	PrimaryKey bool
}

// ParseTag reads a `db:"column,primaryKey"` struct tag. Options this
// package does not act on are ignored.
func ParseTag(tagString reflect.StructTag) DBTag {
	parts := strings.Split(tagString.Get("db"), ",")

	tag := DBTag{}

	for i, part := range parts {
		if i == 0 {
			tag.Column = strings.TrimSpace(part)
			continue
		}

		if strings.TrimSpace(part) == "primaryKey" {
			tag.PrimaryKey = true

			continue
		}
	}

	return tag
}
