package database

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/lunagic/sqlpager/pager"
	"gotest.tools/v3/assert"
)

type renderedUser struct {
	ID    int64  `db:"id,primaryKey"`
	Email string `db:"email"`
	Age   int    `db:"age"`
}

func (e renderedUser) TableStructure() Table {
	return Table{
		Name: "user",
	}
}

type renderedLog struct {
	Message string `db:"message"`
	Level   string `db:"level"`
}

func (e renderedLog) TableStructure() Table {
	return Table{
		Name: "log",
	}
}

func newRenderService(driver Driver) *Service {
	service := &Service{
		driver:  driver,
		mapping: map[uintptr]columnReference{},
	}
	driver.setMapping(service.mapping)

	return service
}

func render[T Entity](t *testing.T, driver Driver, mods func(repository Repository[T]) []QueryModifier) (statement, error) {
	t.Helper()

	repository := NewRepository[T](newRenderService(driver))

	query := repository.selector.baseQuery
	for _, mod := range mods(repository) {
		query = mod(query)
	}

	return driver.generateSelect(query)
}

func pageOf(skip int, take int) QueryModifier {
	return func(query Query) Query {
		query.Limit.Count = take
		query.Limit.Offset = skip
		query.Limit.Paged = true

		return query
	}
}

func TestGenerateSelect(t *testing.T) {
	testCases := map[string]struct {
		Driver             Driver
		Mods               func(repository Repository[renderedUser]) []QueryModifier
		ExpectedQuery      string
		ExpectedParameters map[string]any
	}{
		"plain select": {
			Driver: NewDriverSQLServer(DriverSQLServerConfig{}),
			Mods: func(repository Repository[renderedUser]) []QueryModifier {
				return nil
			},
			ExpectedQuery:      "SELECT [user].[id], [user].[email], [user].[age] FROM [user]",
			ExpectedParameters: map[string]any{},
		},
		"sqlserver single": {
			Driver: NewDriverSQLServer(DriverSQLServerConfig{}),
			Mods: func(repository Repository[renderedUser]) []QueryModifier {
				return []QueryModifier{
					WithAdditionalWhere(And(Equal(&repository.T.ID, 1))),
					WithLimitOverride(1, 0),
				}
			},
			ExpectedQuery:      "SELECT TOP 1 [user].[id], [user].[email], [user].[age] FROM [user] WHERE ([user].[id] = :p1)",
			ExpectedParameters: map[string]any{":p1": int64(1)},
		},
		"sqlserver page": {
			Driver: NewDriverSQLServer(DriverSQLServerConfig{}),
			Mods: func(repository Repository[renderedUser]) []QueryModifier {
				return []QueryModifier{
					WithAdditionalWhere(And(GreaterThan(&repository.T.Age, 18))),
					WithOrderBy(Descending(&repository.T.Age)),
					WithLimitOverride(10, 20),
				}
			},
			ExpectedQuery: "WITH __data AS (SELECT [user].[id], ROW_NUMBER() OVER(ORDER BY [user].[age] DESC) AS [_#_] FROM [user] WHERE ([user].[age] > :p1))\n" +
				"SELECT [user].[id], [user].[email], [user].[age] FROM __data JOIN [user] ON [user].[id] = __data.[id]\n" +
				"WHERE ([user].[age] > :p1) AND [_#_] BETWEEN 21 AND 30",
			ExpectedParameters: map[string]any{":p1": 18},
		},
		"sqlserver 2012 page": {
			Driver: NewDriverSQLServer(DriverSQLServerConfig{Pagination: pager.DialectSQLServer2012}),
			Mods: func(repository Repository[renderedUser]) []QueryModifier {
				return []QueryModifier{
					pageOf(20, 10),
				}
			},
			ExpectedQuery:      "SELECT [user].[id], [user].[email], [user].[age] FROM [user] ORDER BY [user].[id] OFFSET 20 ROWS FETCH NEXT 10 ROWS ONLY",
			ExpectedParameters: map[string]any{},
		},
		"postgres first page": {
			Driver: NewDriverPostgres(DriverPostgresConfig{}),
			Mods: func(repository Repository[renderedUser]) []QueryModifier {
				return []QueryModifier{
					WithAdditionalWhere(And(GreaterThan(&repository.T.Age, 18), LessThan(&repository.T.Age, 65))),
					pageOf(0, 10),
				}
			},
			ExpectedQuery:      `SELECT "user"."id", "user"."email", "user"."age" FROM "user" WHERE ("user"."age" > :p1 AND "user"."age" < :p2) ORDER BY "user"."id" LIMIT 10 OFFSET 0`,
			ExpectedParameters: map[string]any{":p1": 18, ":p2": 65},
		},
		"mysql single": {
			Driver: NewDriverMySQL(DriverMySQLConfig{}),
			Mods: func(repository Repository[renderedUser]) []QueryModifier {
				return []QueryModifier{
					WithOrderBy(Ascending(&repository.T.Email)),
					WithLimitOverride(1, 0),
				}
			},
			ExpectedQuery:      "SELECT `user`.`id`, `user`.`email`, `user`.`age` FROM `user` ORDER BY `user`.`email` ASC LIMIT 1",
			ExpectedParameters: map[string]any{},
		},
		"sqlite or": {
			Driver: NewDriverSQLite(""),
			Mods: func(repository Repository[renderedUser]) []QueryModifier {
				return []QueryModifier{
					WithAdditionalWhere(Or(Equal(&repository.T.ID, 1), Like(&repository.T.Email, "%@example.com"))),
					WithLimitOverride(5, 5),
				}
			},
			ExpectedQuery:      `SELECT "user"."id", "user"."email", "user"."age" FROM "user" WHERE ("user"."id" = :p1 OR "user"."email" LIKE :p2) ORDER BY "user"."id" LIMIT 5 OFFSET 5`,
			ExpectedParameters: map[string]any{":p1": int64(1), ":p2": "%@example.com"},
		},
	}

	for name, testCase := range testCases {
		t.Run(name, func(t *testing.T) {
			actual, err := render(t, testCase.Driver, testCase.Mods)
			assert.NilError(t, err)
			assert.Equal(t, actual.Query, testCase.ExpectedQuery)
			assert.DeepEqual(t, actual.Parameters, testCase.ExpectedParameters)
		})
	}
}

func TestGenerateSelectWithoutKeys(t *testing.T) {
	actual, err := render(t, NewDriverSQLServer(DriverSQLServerConfig{}), func(repository Repository[renderedLog]) []QueryModifier {
		return []QueryModifier{
			WithLimitOverride(2, 4),
		}
	})
	assert.NilError(t, err)
	assert.Equal(
		t,
		actual.Query,
		"WITH __data AS (SELECT [log].[message], ROW_NUMBER() OVER(ORDER BY [log].[message]) AS [_#_] FROM [log])\n"+
			"SELECT [log].[message], [log].[level] FROM __data JOIN [log] ON [log].[message] = __data.[message]\n"+
			"WHERE [_#_] BETWEEN 5 AND 6",
	)
}

func TestDriverPagerLogger(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := pager.WithLogger(slog.New(slog.NewTextHandler(buffer, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))

	for _, driver := range []Driver{
		NewDriverSQLite("", logger),
		NewDriverMySQL(DriverMySQLConfig{}, logger),
		NewDriverPostgres(DriverPostgresConfig{}, logger),
		NewDriverSQLServer(DriverSQLServerConfig{}, logger),
		NewDriverSQLServer(DriverSQLServerConfig{Pagination: pager.DialectSQLServer2012}, logger),
	} {
		buffer.Reset()

		_, err := render(t, driver, func(repository Repository[renderedUser]) []QueryModifier {
			return []QueryModifier{
				pageOf(10, 5),
			}
		})
		assert.NilError(t, err)
		assert.Assert(t, strings.Contains(buffer.String(), "Query Paged"), driver.Pager().Dialect())
		assert.Assert(t, strings.Contains(buffer.String(), "dialect="+string(driver.Pager().Dialect())), buffer.String())
	}
}

func TestGenerateSelectErrors(t *testing.T) {
	{
		unmapped := int64(0)
		_, err := render(t, NewDriverSQLite(""), func(repository Repository[renderedUser]) []QueryModifier {
			return []QueryModifier{
				WithAdditionalWhere(And(Equal(&unmapped, 1))),
			}
		})
		assert.ErrorIs(t, err, ErrUnknownColumn)
	}

	{
		_, err := render(t, NewDriverSQLite(""), func(repository Repository[renderedUser]) []QueryModifier {
			return []QueryModifier{
				WithLimitOverride(0, 5),
				pageOf(-1, 5),
			}
		})
		assert.ErrorIs(t, err, pager.ErrInvalidArgument)
	}

	{
		_, err := generateSelect(NewDriverSQLite(""), Query{})
		assert.ErrorIs(t, err, ErrBlankQuery)
	}
}

func TestGenerateBaseQuery(t *testing.T) {
	query, err := generateBaseQuery(renderedUser{})
	assert.NilError(t, err)
	assert.DeepEqual(t, query.Select, []string{"id", "email", "age"})
	assert.DeepEqual(t, query.Keys, []string{"id"})
	assert.Equal(t, query.From, "user")

	query, err = generateBaseQuery(renderedLog{})
	assert.NilError(t, err)
	assert.Equal(t, len(query.Keys), 0)
}
