// Package sqlpager wires a pager and a database service from one flat,
// environment-driven configuration.
package sqlpager

import (
	"fmt"
	"log/slog"

	"github.com/lunagic/environment-go/environment"
	"github.com/lunagic/sqlpager/pager"
	"github.com/lunagic/sqlpager/sqlpagerservices/database"
)

type Config struct {
	//
	logger *slog.Logger
	// Drivers
	SQLPagerDialect string `env:"SQLPAGER_DIALECT"`
	DatabaseDriver  string `env:"DATABASE_DRIVER"`
	// Services
	MySQLHost           string `env:"MYSQL_HOST"`
	MySQLName           string `env:"MYSQL_NAME"`
	MySQLPass           string `env:"MYSQL_PASS"`
	MySQLPort           int    `env:"MYSQL_PORT"`
	MySQLUser           string `env:"MYSQL_USER"`
	PostgresHost        string `env:"POSTGRES_HOST"`
	PostgresName        string `env:"POSTGRES_NAME"`
	PostgresPass        string `env:"POSTGRES_PASS"`
	PostgresPort        int    `env:"POSTGRES_PORT"`
	PostgresSQLDriver   string `env:"POSTGRES_SQL_DRIVER"`
	PostgresUser        string `env:"POSTGRES_USER"`
	SQLitePath          string `env:"SQLITE_PATH"`
	SQLServerHost       string `env:"SQLSERVER_HOST"`
	SQLServerName       string `env:"SQLSERVER_NAME"`
	SQLServerPagination string `env:"SQLSERVER_PAGINATION"`
	SQLServerPass       string `env:"SQLSERVER_PASS"`
	SQLServerPort       int    `env:"SQLSERVER_PORT"`
	SQLServerUser       string `env:"SQLSERVER_USER"`
}

func NewConfig() Config {
	return Config{
		logger:              slog.New(slog.DiscardHandler),
		SQLPagerDialect:     string(pager.DialectSQLServer),
		DatabaseDriver:      "sqlite",
		MySQLHost:           "127.0.0.1",
		MySQLPort:           3306,
		PostgresHost:        "127.0.0.1",
		PostgresPort:        5432,
		PostgresSQLDriver:   database.PostgresSQLDriverPQ,
		SQLitePath:          "database.sqlite",
		SQLServerHost:       "127.0.0.1",
		SQLServerPagination: string(pager.DialectSQLServer),
		SQLServerPort:       1433,
	}
}

// LoadConfig reads the defaults overridden by the process environment and
// any .env.local or .env file in the working directory.
func LoadConfig() (Config, error) {
	return NewConfig().FromEnvironment(environment.New())
}

// FromEnvironment overrides every field whose env key is set in env.
func (config Config) FromEnvironment(env *environment.Service) (Config, error) {
	if err := env.Decode(&config); err != nil {
		return Config{}, fmt.Errorf("decode environment: %w", err)
	}

	return config, nil
}

func (config Config) WithLogger(logger *slog.Logger) Config {
	config.logger = logger

	return config
}

func (config Config) Logger() *slog.Logger {
	if config.logger == nil {
		return slog.New(slog.DiscardHandler)
	}

	return config.logger
}

func (config Config) Pager() (pager.Pager, error) {
	return pager.New(pager.Dialect(config.SQLPagerDialect), pager.WithLogger(config.Logger()))
}

func (config Config) Database(configFuncs ...database.ServiceConfigFunc) (*database.Service, error) {
	pagerLogger := pager.WithLogger(config.Logger())

	switch config.DatabaseDriver {
	case "sqlite":
		return database.New(
			database.NewDriverSQLite(config.SQLitePath, pagerLogger),
			configFuncs...,
		)
	case "postgres":
		return database.New(
			database.NewDriverPostgres(database.DriverPostgresConfig{
				Host:      config.PostgresHost,
				Port:      config.PostgresPort,
				User:      config.PostgresUser,
				Pass:      config.PostgresPass,
				Name:      config.PostgresName,
				SQLDriver: config.PostgresSQLDriver,
			}, pagerLogger),
			configFuncs...,
		)
	case "mysql":
		return database.New(
			database.NewDriverMySQL(database.DriverMySQLConfig{
				Host: config.MySQLHost,
				Port: config.MySQLPort,
				User: config.MySQLUser,
				Pass: config.MySQLPass,
				Name: config.MySQLName,
			}, pagerLogger),
			configFuncs...,
		)
	case "sqlserver":
		return database.New(
			database.NewDriverSQLServer(database.DriverSQLServerConfig{
				Host:       config.SQLServerHost,
				Port:       config.SQLServerPort,
				User:       config.SQLServerUser,
				Pass:       config.SQLServerPass,
				Name:       config.SQLServerName,
				Pagination: pager.Dialect(config.SQLServerPagination),
			}, pagerLogger),
			configFuncs...,
		)
	}

	return nil, fmt.Errorf("invalid database driver: %s", config.DatabaseDriver)
}
