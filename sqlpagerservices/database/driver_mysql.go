package database

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lunagic/sqlpager/pager"
)

func NewDriverMySQL(config DriverMySQLConfig, pagerConfigFuncs ...pager.ConfigFunc) Driver {
	return &driverMySQL{
		config: config,
		pager:  pager.NewPagerLimitOffset(pager.DialectMySQL, pagerConfigFuncs...),
	}
}

type DriverMySQLConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string
}

type driverMySQL struct {
	config  DriverMySQLConfig
	pager   pager.Pager
	mapping map[uintptr]columnReference
}

func (driver *driverMySQL) Open() (*sql.DB, error) {
	_ = mysql.SetLogger(log.New(io.Discard, "", log.LstdFlags))

	return sql.Open("mysql", fmt.Sprintf(
		"%s:%s@(%s:%d)/%s?parseTime=true",
		driver.config.User,
		driver.config.Pass,
		driver.config.Host,
		driver.config.Port,
		driver.config.Name,
	))
}

func (driver *driverMySQL) Pager() pager.Pager {
	return driver.pager
}

func (driver *driverMySQL) setMapping(mapping map[uintptr]columnReference) {
	driver.mapping = mapping
}

func (driver *driverMySQL) generateSelect(query Query) (statement, error) {
	return generateSelect(driver, query)
}

func (driver *driverMySQL) generateSimpleOperatorOfEquality(o simpleOperatorOfEquality, b *bindings) (string, error) {
	return generateSimpleOperatorOfEquality(driver, driver.mapping, o, b)
}

func (driver *driverMySQL) generateSimpleOperatorOfLogic(o simpleOperatorOfLogic, b *bindings) (string, error) {
	return generateSimpleOperatorOfLogic(driver, o, b)
}

func (driver *driverMySQL) generateOrdering(o Ordering) (string, error) {
	return generateOrdering(driver, driver.mapping, o)
}

func (driver *driverMySQL) placeholder(position int) string {
	return "?"
}

func (driver *driverMySQL) quoteIdentifier(identifier string) string {
	return "`" + strings.ReplaceAll(identifier, "`", "``") + "`"
}
