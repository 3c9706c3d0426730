package pager

import (
	"fmt"

	"github.com/lunagic/sqlpager/pager/internal/clause"
)

// NewPagerSQLServer2012 pages with ORDER BY ... OFFSET ... FETCH, available
// from SQL Server 2012.
func NewPagerSQLServer2012(configFuncs ...ConfigFunc) Pager {
	return &pagerSQLServer2012{
		config: newConfig(configFuncs),
	}
}

type pagerSQLServer2012 struct {
	config config
}

func (pager *pagerSQLServer2012) Dialect() Dialect {
	return DialectSQLServer2012
}

func (pager *pagerSQLServer2012) ApplyLimit(sql string, maxRows int) (string, error) {
	return applyTop(pager.config, pager.Dialect(), sql, maxRows)
}

func (pager *pagerSQLServer2012) ApplyPaging(sql string, orderKeys []string, skip int, take int) (string, error) {
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
		"%s ORDER BY %s OFFSET %d ROWS FETCH NEXT %d ROWS ONLY",
		statement.Body,
		ordering(statement, keys),
		window.Skip,
		window.Take,
	)
	pager.config.logRewrite("Query Paged", pager.Dialect(), result)

	return result, nil
}
