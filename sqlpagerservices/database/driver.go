package database

import (
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/lunagic/sqlpager/pager"
	"github.com/lunagic/sqlpager/sqlpagertools"
)

var (
	ErrNoRows        = errors.New("no rows found")
	ErrBlankQuery    = errors.New("blank query")
	ErrUnknownColumn = errors.New("unknown column")
)

type columnReference struct {
	Table  string
	Column string
}

type Driver interface {
	Open() (*sql.DB, error)
	Pager() pager.Pager
	setMapping(mapping map[uintptr]columnReference)
	generateSelect(query Query) (statement, error)
	generateSimpleOperatorOfEquality(o simpleOperatorOfEquality, b *bindings) (string, error)
	generateSimpleOperatorOfLogic(o simpleOperatorOfLogic, b *bindings) (string, error)
	generateOrdering(o Ordering) (string, error)
	placeholder(position int) string
	quoteIdentifier(identifier string) string
}

func generateSelect(driver Driver, query Query) (statement, error) {
	if query.From == "" || len(query.Select) == 0 {
		return statement{}, ErrBlankQuery
	}

	qualify := func(column string) string {
		return driver.quoteIdentifier(query.From) + "." + driver.quoteIdentifier(column)
	}

	b := newBindings()
	queryString := fmt.Sprintf(
		"SELECT %s FROM %s",
		strings.Join(sqlpagertools.Map(query.Select, qualify), ", "),
		driver.quoteIdentifier(query.From),
	)

	if query.Where != nil && query.Where.hasAny() {
		where, err := query.Where.haveDriverRender(driver, b)
		if err != nil {
			return statement{}, err
		}

		queryString += " WHERE " + where
	}

	if len(query.OrderBy) > 0 {
		orderings := []string{}
		for _, ordering := range query.OrderBy {
			rendered, err := driver.generateOrdering(ordering)
			if err != nil {
				return statement{}, err
			}

			orderings = append(orderings, rendered)
		}

		queryString += " ORDER BY " + strings.Join(orderings, ", ")
	}

	if query.Limit.Count > 0 {
		var err error
		if query.Limit.Offset == 0 && !query.Limit.Paged {
			queryString, err = driver.Pager().ApplyLimit(queryString, query.Limit.Count)
		} else {
			keys := query.Keys
			if len(keys) == 0 {
				keys = query.Select[:1]
			}

			queryString, err = driver.Pager().ApplyPaging(
				queryString,
				sqlpagertools.Map(keys, qualify),
				query.Limit.Offset,
				query.Limit.Count,
			)
		}
		if err != nil {
			return statement{}, err
		}
	}

	return statement{
		Query:      queryString,
		Parameters: b.parameters,
	}, nil
}

func generateSimpleOperatorOfLogic(driver Driver, o simpleOperatorOfLogic, b *bindings) (string, error) {
	parts := []string{}
	for _, x := range o.operatorsEvaluation {
		part, err := x.haveDriverRender(driver, b)
		if err != nil {
			return "", err
		}

		parts = append(parts, part)
	}

	return fmt.Sprintf("(%s)", strings.Join(parts, " "+o.operatorKeyword+" ")), nil
}

func generateSimpleOperatorOfEquality(driver Driver, mapping map[uintptr]columnReference, o simpleOperatorOfEquality, b *bindings) (string, error) {
	column, err := resolveColumn(driver, mapping, o.Column)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s %s %s", column, o.Operator, b.bind(o.Value)), nil
}

func generateOrdering(driver Driver, mapping map[uintptr]columnReference, o Ordering) (string, error) {
	column, err := resolveColumn(driver, mapping, o.Column)
	if err != nil {
		return "", err
	}

	return column + " " + o.Direction, nil
}

// resolveColumn turns a pointer into a repository's field into the quoted,
// table-qualified column it maps to.
func resolveColumn(driver Driver, mapping map[uintptr]columnReference, column any) (string, error) {
	value := reflect.ValueOf(column)
	if value.Kind() != reflect.Pointer {
		return "", fmt.Errorf("%w: %T is not a field pointer", ErrUnknownColumn, column)
	}

	reference, found := mapping[uintptr(value.UnsafePointer())]
	if !found {
		return "", ErrUnknownColumn
	}

	return driver.quoteIdentifier(reference.Table) + "." + driver.quoteIdentifier(reference.Column), nil
}
