package pager

import (
	"fmt"

	"github.com/lunagic/sqlpager/pager/internal/clause"
)

// NewPagerLimitOffset pages with the trailing LIMIT and OFFSET clauses shared
// by MySQL, Postgres and SQLite.
func NewPagerLimitOffset(dialect Dialect, configFuncs ...ConfigFunc) Pager {
	return &pagerLimitOffset{
		dialect: dialect,
		config:  newConfig(configFuncs),
	}
}

type pagerLimitOffset struct {
	dialect Dialect
	config  config
}

func (pager *pagerLimitOffset) Dialect() Dialect {
	return pager.dialect
}

func (pager *pagerLimitOffset) ApplyLimit(sql string, maxRows int) (string, error) {
	if err := validateMaxRows(maxRows); err != nil {
		return "", err
	}

	statement, err := clause.Split(sql)
	if err != nil {
		return "", err
	}

	result := fmt.Sprintf("%s LIMIT %d", statement.Body, maxRows)
	if statement.Ordering != "" {
		result = fmt.Sprintf("%s ORDER BY %s LIMIT %d", statement.Body, statement.Ordering, maxRows)
	}
	pager.config.logRewrite("Query Limited", pager.Dialect(), result)

	return result, nil
}

func (pager *pagerLimitOffset) ApplyPaging(sql string, orderKeys []string, skip int, take int) (string, error) {
	window, err := NewWindow(skip, take)
	if err != nil {
		return "", err
	}

	keys, err := parseOrderKeys(orderKeys)
	if err != nil {
		return "", err
	}

	statement, err := clause.Split(sql)
	if err != nil {
		return "", err
	}

	result := fmt.Sprintf(
		"%s ORDER BY %s LIMIT %d OFFSET %d",
		statement.Body,
		ordering(statement, keys),
		window.Take,
		window.Skip,
	)
	pager.config.logRewrite("Query Paged", pager.Dialect(), result)

	return result, nil
}
