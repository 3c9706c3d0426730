package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lunagic/sqlpager/pager"
	_ "github.com/mattn/go-sqlite3"
)

func NewDriverSQLite(path string, pagerConfigFuncs ...pager.ConfigFunc) Driver {
	return &driverSQLite{
		Path:  path,
		pager: pager.NewPagerLimitOffset(pager.DialectSQLite, pagerConfigFuncs...),
	}
}

type driverSQLite struct {
	Path    string
	pager   pager.Pager
	mapping map[uintptr]columnReference
}

func (driver *driverSQLite) Open() (*sql.DB, error) {
	return sql.Open(
		"sqlite3",
		fmt.Sprintf("file:%s?cache=shared&_foreign_keys=on", driver.Path),
	)
}

func (driver *driverSQLite) Pager() pager.Pager {
	return driver.pager
}

func (driver *driverSQLite) setMapping(mapping map[uintptr]columnReference) {
	driver.mapping = mapping
}

func (driver *driverSQLite) generateSelect(query Query) (statement, error) {
	return generateSelect(driver, query)
}

func (driver *driverSQLite) generateSimpleOperatorOfEquality(o simpleOperatorOfEquality, b *bindings) (string, error) {
	return generateSimpleOperatorOfEquality(driver, driver.mapping, o, b)
}

func (driver *driverSQLite) generateSimpleOperatorOfLogic(o simpleOperatorOfLogic, b *bindings) (string, error) {
	return generateSimpleOperatorOfLogic(driver, o, b)
}

func (driver *driverSQLite) generateOrdering(o Ordering) (string, error) {
	return generateOrdering(driver, driver.mapping, o)
}

func (driver *driverSQLite) placeholder(position int) string {
	return "?"
}

func (driver *driverSQLite) quoteIdentifier(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
