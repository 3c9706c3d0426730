// Package pager rewrites a flat SELECT statement so that it returns only a
// window of its rows, using whatever syntax the target dialect supports.
//
// Pagers hold no mutable state and may be shared between goroutines.
package pager

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/lunagic/sqlpager/pager/internal/clause"
)

var (
	ErrMalformedStatement = clause.ErrMalformedStatement
	ErrInvalidArgument    = errors.New("invalid argument")
)

type Dialect string

const (
	DialectSQLServer     Dialect = "sqlserver"
	DialectSQLServer2012 Dialect = "sqlserver2012"
	DialectMySQL         Dialect = "mysql"
	DialectPostgres      Dialect = "postgres"
	DialectSQLite        Dialect = "sqlite"
)

type Pager interface {
	Dialect() Dialect
	// ApplyLimit caps sql at the first maxRows rows.
	ApplyLimit(sql string, maxRows int) (string, error)
	// ApplyPaging returns rows skip+1 through skip+take of sql. orderKeys
	// order the rows when sql has no ORDER BY of its own.
	ApplyPaging(sql string, orderKeys []string, skip int, take int) (string, error)
}

func New(dialect Dialect, configFuncs ...ConfigFunc) (Pager, error) {
	switch dialect {
	case DialectSQLServer:
		return NewPagerSQLServer(configFuncs...), nil
	case DialectSQLServer2012:
		return NewPagerSQLServer2012(configFuncs...), nil
	case DialectMySQL, DialectPostgres, DialectSQLite:
		return NewPagerLimitOffset(dialect, configFuncs...), nil
	}

	return nil, fmt.Errorf("%w: unknown dialect: %s", ErrInvalidArgument, dialect)
}

type config struct {
	logger *slog.Logger
}

type ConfigFunc func(config *config)

func WithLogger(logger *slog.Logger) ConfigFunc {
	return func(config *config) {
		config.logger = logger
	}
}

func newConfig(configFuncs []ConfigFunc) config {
	c := config{
		logger: slog.New(slog.DiscardHandler),
	}

	for _, configFunc := range configFuncs {
		configFunc(&c)
	}

	return c
}

func (c config) logRewrite(message string, dialect Dialect, statement string) {
	c.logger.Debug(message,
		"dialect", dialect,
		"statement", statement,
	)
}
