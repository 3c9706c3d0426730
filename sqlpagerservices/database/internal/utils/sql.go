package utils

import (
	"reflect"
	"regexp"
	"strings"
)

var (
	paramFinder = regexp.MustCompile(`(?m):\w+`)
	spaceFinder = regexp.MustCompile(`(?m)\s^\s+`)
)

// Prepare swaps each :name parameter for the driver's positional placeholder.
// A name used twice is bound twice, and slices expand to one placeholder per
// element.
func Prepare(statement string, parameters map[string]any, placeholder func(position int) string) (string, []any, error) {
	statement = strings.TrimSpace(spaceFinder.ReplaceAllString(statement, " "))

	args := []any{}
	paramBuilder := func(value any) string {
		args = append(args, value)

		return placeholder(len(args))
	}

	newStatement := paramFinder.ReplaceAllStringFunc(statement, func(s string) string {
		parameterValue, found := parameters[s]
		if !found {
			return s
		}

		rt := reflect.TypeOf(parameterValue)
		if rt != nil && (rt.Kind() == reflect.Array || rt.Kind() == reflect.Slice) && rt.Elem().Kind() != reflect.Uint8 {
			localArgs := []string{}

			valueOf := reflect.ValueOf(parameterValue)
			for i := range valueOf.Len() {
				localArgs = append(localArgs, paramBuilder(valueOf.Index(i).Interface()))
			}

			return strings.Join(localArgs, ", ")
		}

		return paramBuilder(parameterValue)
	})

	return newStatement, args, nil
}
