package database

import (
	"database/sql"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/lunagic/sqlpager/pager"
	_ "github.com/microsoft/go-mssqldb"
)

func NewDriverSQLServer(config DriverSQLServerConfig, pagerConfigFuncs ...pager.ConfigFunc) Driver {
	driver := &driverSQLServer{
		config: config,
		pager:  pager.NewPagerSQLServer(pagerConfigFuncs...),
	}

	if config.Pagination == pager.DialectSQLServer2012 {
		driver.pager = pager.NewPagerSQLServer2012(pagerConfigFuncs...)
	}

	return driver
}

type DriverSQLServerConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string

	// Pagination picks OFFSET/FETCH paging when set to sqlserver2012.
	// Anything else pages with ROW_NUMBER(), which older servers accept.
	Pagination pager.Dialect
}

type driverSQLServer struct {
	config  DriverSQLServerConfig
	pager   pager.Pager
	mapping map[uintptr]columnReference
}

func (driver *driverSQLServer) Open() (*sql.DB, error) {
	query := url.Values{}
	query.Set("database", driver.config.Name)
	query.Set("encrypt", "disable")

	connectionURL := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(driver.config.User, driver.config.Pass),
		Host:     net.JoinHostPort(driver.config.Host, strconv.Itoa(driver.config.Port)),
		RawQuery: query.Encode(),
	}

	return sql.Open("sqlserver", connectionURL.String())
}

func (driver *driverSQLServer) Pager() pager.Pager {
	return driver.pager
}

func (driver *driverSQLServer) setMapping(mapping map[uintptr]columnReference) {
	driver.mapping = mapping
}

func (driver *driverSQLServer) generateSelect(query Query) (statement, error) {
	return generateSelect(driver, query)
}

func (driver *driverSQLServer) generateSimpleOperatorOfEquality(o simpleOperatorOfEquality, b *bindings) (string, error) {
	return generateSimpleOperatorOfEquality(driver, driver.mapping, o, b)
}

func (driver *driverSQLServer) generateSimpleOperatorOfLogic(o simpleOperatorOfLogic, b *bindings) (string, error) {
	return generateSimpleOperatorOfLogic(driver, o, b)
}

func (driver *driverSQLServer) generateOrdering(o Ordering) (string, error) {
	return generateOrdering(driver, driver.mapping, o)
}

func (driver *driverSQLServer) placeholder(position int) string {
	return fmt.Sprintf("@p%d", position)
}

func (driver *driverSQLServer) quoteIdentifier(identifier string) string {
	return "[" + strings.ReplaceAll(identifier, "]", "]]") + "]"
}
