package utils

import "reflect"

type Field struct {
	Index int
	Tag   DBTag
	Value reflect.Value
}

// ColumnFields lists the exported fields of a struct, or of the struct a
// pointer refers to, that map to a column.
func ColumnFields(value reflect.Value) []Field {
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	fields := []Field{}
	for i := range value.NumField() {
		fieldDefinition := value.Type().Field(i)
		if !fieldDefinition.IsExported() {
			continue
		}

		tag := ParseTag(fieldDefinition.Tag)
		if tag.Column == "" {
			continue
		}

		fields = append(fields, Field{
			Index: i,
			Tag:   tag,
			Value: value.Field(i),
		})
	}

	return fields
}
