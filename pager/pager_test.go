package pager_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/lunagic/sqlpager/pager"
	"gotest.tools/v3/assert"
)

func TestNew(t *testing.T) {
	t.Parallel()

	for _, dialect := range []pager.Dialect{
		pager.DialectSQLServer,
		pager.DialectSQLServer2012,
		pager.DialectMySQL,
		pager.DialectPostgres,
		pager.DialectSQLite,
	} {
		p, err := pager.New(dialect)
		assert.NilError(t, err)
		assert.Equal(t, p.Dialect(), dialect)
	}

	_, err := pager.New("oracle")
	assert.ErrorIs(t, err, pager.ErrInvalidArgument)
}

func TestSQLServer2012ApplyPaging(t *testing.T) {
	t.Parallel()

	p := pager.NewPagerSQLServer2012()

	{
		actual, err := p.ApplyPaging("select a,b from d where a = 1 order by b", []string{"a"}, 5, 10)
		assert.NilError(t, err)
		assert.Equal(t, actual, "select a,b from d where a = 1 ORDER BY b OFFSET 5 ROWS FETCH NEXT 10 ROWS ONLY")
	}

	{
		actual, err := p.ApplyPaging("select a,b from d;", []string{"a", "b"}, 0, 3)
		assert.NilError(t, err)
		assert.Equal(t, actual, "select a,b from d ORDER BY a, b OFFSET 0 ROWS FETCH NEXT 3 ROWS ONLY")
	}

	{
		actual, err := p.ApplyLimit("select a from d", 4)
		assert.NilError(t, err)
		assert.Equal(t, actual, "select top 4 a from d")
	}

	{
		_, err := p.ApplyPaging("select a from d", nil, 0, 3)
		assert.ErrorIs(t, err, pager.ErrInvalidArgument)
	}
}

func TestLimitOffset(t *testing.T) {
	t.Parallel()

	p := pager.NewPagerLimitOffset(pager.DialectPostgres)
	assert.Equal(t, p.Dialect(), pager.DialectPostgres)

	{
		actual, err := p.ApplyLimit("select a from d order by a desc;", 3)
		assert.NilError(t, err)
		assert.Equal(t, actual, "select a from d ORDER BY a desc LIMIT 3")
	}

	{
		actual, err := p.ApplyLimit("select a from d -- all of them", 3)
		assert.NilError(t, err)
		assert.Equal(t, actual, "select a from d LIMIT 3")
	}

	{
		actual, err := p.ApplyPaging("select a from d where a > 1", []string{"d.id"}, 20, 10)
		assert.NilError(t, err)
		assert.Equal(t, actual, "select a from d where a > 1 ORDER BY d.id LIMIT 10 OFFSET 20")
	}

	{
		_, err := p.ApplyLimit("select a from d limit 5", 3)
		assert.ErrorIs(t, err, pager.ErrMalformedStatement)
	}

	{
		_, err := p.ApplyPaging("select a from d", []string{"d.id"}, 0, 0)
		assert.ErrorIs(t, err, pager.ErrInvalidArgument)
	}
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	buffer := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))

	p, err := pager.New(pager.DialectSQLServer, pager.WithLogger(logger))
	assert.NilError(t, err)

	_, err = p.ApplyPaging(unorderedStatement, []string{"[dbo].[d].[a]"}, 0, 10)
	assert.NilError(t, err)

	_, err = p.ApplyLimit(unorderedStatement, 10)
	assert.NilError(t, err)

	output := buffer.String()
	assert.Assert(t, strings.Contains(output, `msg="Query Paged"`), output)
	assert.Assert(t, strings.Contains(output, `msg="Query Limited"`), output)
	assert.Assert(t, strings.Contains(output, "dialect=sqlserver"), output)
}
