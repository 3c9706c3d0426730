package pager

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lunagic/sqlpager/pager/internal/clause"
)

const (
	rankedName   = "__data"
	rankedColumn = "[_#_]"
)

// NewPagerSQLServer pages with a ROW_NUMBER() common table expression, which
// works on every SQL Server version since 2005.
func NewPagerSQLServer(configFuncs ...ConfigFunc) Pager {
	return &pagerSQLServer{
		config: newConfig(configFuncs),
	}
}

type pagerSQLServer struct {
	config config
}

func (pager *pagerSQLServer) Dialect() Dialect {
	return DialectSQLServer
}

func (pager *pagerSQLServer) ApplyLimit(sql string, maxRows int) (string, error) {
	return applyTop(pager.config, pager.Dialect(), sql, maxRows)
}

func (pager *pagerSQLServer) ApplyPaging(sql string, orderKeys []string, skip int, take int) (string, error) {
	window, err := NewWindow(skip, take)
	if err != nil {
		return "", err
	}

	keys, err := parseOrderKeys(orderKeys)
	if err != nil {
		return "", err
	}

	{ // The ranked set carries every key as a column, so their names must differ
		seen := map[string]string{}
		for _, key := range keys {
			column := strings.ToLower(strings.Trim(key.Column, "[]\"`"))
			if previous, found := seen[column]; found {
				return "", fmt.Errorf("%w: order keys %s and %s share the column name %s", ErrInvalidArgument, previous, key.Name, key.Column)
			}
			seen[column] = key.Name
		}
	}

	statement, err := clause.Split(sql)
	if err != nil {
		return "", err
	}

	if strings.EqualFold(statement.Quantifier, "DISTINCT") {
		return "", fmt.Errorf("%w: DISTINCT applies after the rows are ranked, so pages would overlap", ErrMalformedStatement)
	}

	for _, key := range keys {
		if statement.NamesUnqualified(key.Column) {
			return "", fmt.Errorf("%w: %s is also a column of %s, so the statement must qualify it", ErrInvalidArgument, key.Column, rankedName)
		}
	}

	rankOrdering, err := statement.WindowOrdering()
	if err != nil {
		return "", err
	}
	if rankOrdering == "" {
		rankOrdering = joinOrderKeys(keys)
	}

	joinConditions := []string{}
	for _, key := range keys {
		name := key.Name
		if !key.Qualified {
			if statement.Correlation == "" {
				return "", fmt.Errorf("%w: order key %s must be qualified when selecting from several sources", ErrInvalidArgument, key.Name)
			}
			name = statement.Correlation + "." + key.Name
		}

		joinConditions = append(joinConditions, fmt.Sprintf("%s = %s.%s", name, rankedName, key.Column))
	}

	builder := strings.Builder{}

	{ // Rank the filtered rows, carrying only the keys
		fmt.Fprintf(
			&builder,
			"WITH %s AS (SELECT %s, ROW_NUMBER() OVER(ORDER BY %s) AS %s FROM %s",
			rankedName,
			joinOrderKeys(keys),
			rankOrdering,
			rankedColumn,
			statement.Source,
		)
		if statement.Predicate != "" {
			fmt.Fprintf(&builder, " WHERE %s", statement.Predicate)
		}
		builder.WriteString(")\n")
	}

	conditions := []string{}

	{ // Join the ranked keys back to the source for the selected columns
		fmt.Fprintf(&builder, "SELECT %s FROM ", statement.Projection())
		if len(statement.Sources) > 1 {
			fmt.Fprintf(&builder, "%s, %s", rankedName, statement.Source)
			conditions = append(conditions, joinConditions...)
		} else {
			fmt.Fprintf(&builder, "%s JOIN %s ON %s", rankedName, statement.Source, strings.Join(joinConditions, " AND "))
		}
	}

	if statement.Predicate != "" {
		conditions = append(conditions, statement.GuardedPredicate())
	}

	conditions = append(conditions, fmt.Sprintf("%s BETWEEN %d AND %d", rankedColumn, window.LowerBound(), window.UpperBound()))

	fmt.Fprintf(&builder, "\nWHERE %s", strings.Join(conditions, " AND "))

	result := builder.String()
	pager.config.logRewrite("Query Paged", pager.Dialect(), result)

	return result, nil
}

// applyTop inserts TOP n after SELECT and any DISTINCT or ALL, leaving the
// rest of the statement untouched.
func applyTop(config config, dialect Dialect, sql string, maxRows int) (string, error) {
	if err := validateMaxRows(maxRows); err != nil {
		return "", err
	}

	head, err := clause.ParseHead(sql)
	if err != nil {
		return "", err
	}

	if head.Limited {
		return "", fmt.Errorf("%w: statement is already limited by TOP", ErrMalformedStatement)
	}

	top := " " + matchCase(head.Keyword, "TOP") + " " + strconv.Itoa(maxRows)
	rest := sql[head.Insert:]
	if rest != "" && !unicode.IsSpace(rune(rest[0])) {
		top += " "
	}

	result := sql[:head.Insert] + top + rest
	config.logRewrite("Query Limited", dialect, result)

	return result, nil
}

// matchCase writes keyword in lower case when example is in lower case.
func matchCase(example string, keyword string) string {
	if example == strings.ToLower(example) {
		return strings.ToLower(keyword)
	}

	return keyword
}
