package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"github.com/lunagic/sqlpager/pager"
)

const (
	PostgresSQLDriverPQ  = "postgres"
	PostgresSQLDriverPgx = "pgx"
)

func NewDriverPostgres(config DriverPostgresConfig, pagerConfigFuncs ...pager.ConfigFunc) Driver {
	return &driverPostgres{
		config: config,
		pager:  pager.NewPagerLimitOffset(pager.DialectPostgres, pagerConfigFuncs...),
	}
}

type DriverPostgresConfig struct {
	Host string
	Port int
	User string
	Pass string
	Name string

	// SQLDriver names the database/sql driver: PostgresSQLDriverPQ, the
	// default, or PostgresSQLDriverPgx.
	SQLDriver string
}

type driverPostgres struct {
	config  DriverPostgresConfig
	pager   pager.Pager
	mapping map[uintptr]columnReference
}

func (driver *driverPostgres) Open() (*sql.DB, error) {
	sqlDriver := driver.config.SQLDriver
	if sqlDriver == "" {
		sqlDriver = PostgresSQLDriverPQ
	}

	return sql.Open(
		sqlDriver,
		fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			driver.config.Host,
			driver.config.Port,
			driver.config.User,
			driver.config.Pass,
			driver.config.Name,
		),
	)
}

func (driver *driverPostgres) Pager() pager.Pager {
	return driver.pager
}

func (driver *driverPostgres) setMapping(mapping map[uintptr]columnReference) {
	driver.mapping = mapping
}

func (driver *driverPostgres) generateSelect(query Query) (statement, error) {
	return generateSelect(driver, query)
}

func (driver *driverPostgres) generateSimpleOperatorOfEquality(o simpleOperatorOfEquality, b *bindings) (string, error) {
	return generateSimpleOperatorOfEquality(driver, driver.mapping, o, b)
}

func (driver *driverPostgres) generateSimpleOperatorOfLogic(o simpleOperatorOfLogic, b *bindings) (string, error) {
	return generateSimpleOperatorOfLogic(driver, o, b)
}

func (driver *driverPostgres) generateOrdering(o Ordering) (string, error) {
	return generateOrdering(driver, driver.mapping, o)
}

func (driver *driverPostgres) placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}

func (driver *driverPostgres) quoteIdentifier(identifier string) string {
	return `"` + strings.ReplaceAll(identifier, `"`, `""`) + `"`
}
