package clause

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/lunagic/sqlpager/sqlpagertools"
)

var ErrMalformedIdentifier = errors.New("malformed identifier")

type Column struct {
	Text       string
	Expression string
	Alias      string
}

type OrderItem struct {
	Text       string
	Expression string
	Direction  string
}

// SelectStatement is a flat SELECT taken apart at its top-level keywords.
// Every text field is verbatim from the input, minus comments and
// surrounding whitespace.
type SelectStatement struct {
	Keyword     string
	Quantifier  string
	SelectList  string
	Columns     []Column
	Source      string
	Sources     []string
	Correlation string
	Predicate   string
	Disjunctive bool
	Ordering    string
	OrderBy     []OrderItem

	// Body is the statement without its ORDER BY clause.
	Body string
}

func Split(sql string) (SelectStatement, error) {
	masked, text, err := scan(strings.TrimSpace(sql))
	if err != nil {
		return SelectStatement{}, err
	}

	masked, text = trimTerminator(masked, text)

	selectKeyword, found := find(keywordSelect, masked, 0)
	if !found {
		return SelectStatement{}, fmt.Errorf("%w: statement does not start with SELECT", ErrMalformedStatement)
	}

	if strings.Contains(masked, ";") {
		return SelectStatement{}, fmt.Errorf("%w: multiple statements are not supported", ErrMalformedStatement)
	}

	for _, u := range unsupported {
		if _, found := find(u.pattern, masked, selectKeyword.end); found {
			return SelectStatement{}, fmt.Errorf("%w: %s", ErrMalformedStatement, u.reason)
		}
	}

	statement := SelectStatement{
		Keyword: text[selectKeyword.start:selectKeyword.end],
	}

	listStart := selectKeyword.end
	if quantifier, found := find(keywordQuantifier, masked, listStart); found {
		statement.Quantifier = text[quantifier.start:quantifier.end]
		listStart = quantifier.end
	}

	if _, found := find(keywordTop, masked, listStart); found {
		return SelectStatement{}, fmt.Errorf("%w: statement is already limited by TOP", ErrMalformedStatement)
	}

	from, found := find(keywordFrom, masked, listStart)
	if !found {
		return SelectStatement{}, fmt.Errorf("%w: missing FROM", ErrMalformedStatement)
	}

	where, hasWhere := find(keywordWhere, masked, from.end)
	order, hasOrder := find(keywordOrderBy, masked, from.end)
	if hasWhere && hasOrder && where.start > order.start {
		return SelectStatement{}, fmt.Errorf("%w: WHERE after ORDER BY", ErrMalformedStatement)
	}

	sourceEnd := len(text)
	bodyEnd := len(text)
	if hasOrder {
		sourceEnd = order.start
		bodyEnd = order.start
	}
	if hasWhere {
		sourceEnd = where.start
	}

	{ // Select list
		statement.SelectList = span{start: listStart, end: from.start}.of(text)
		for _, entry := range splitTopLevel(masked, listStart, from.start, ',') {
			column, err := splitColumn(masked, text, entry)
			if err != nil {
				return SelectStatement{}, err
			}

			statement.Columns = append(statement.Columns, column)
		}
	}

	{ // Source
		statement.Source = span{start: from.end, end: sourceEnd}.of(text)
		if statement.Source == "" {
			return SelectStatement{}, fmt.Errorf("%w: empty FROM clause", ErrMalformedStatement)
		}

		if strings.HasPrefix(strings.TrimSpace(masked[from.end:sourceEnd]), "(") {
			return SelectStatement{}, fmt.Errorf("%w: derived tables are not supported", ErrMalformedStatement)
		}

		sources := splitTopLevel(masked, from.end, sourceEnd, ',')
		statement.Sources = sqlpagertools.Map(sources, func(s span) string {
			return s.of(text)
		})

		if len(sources) == 1 {
			named := masked[from.end:sourceEnd]
			if hint := tableHint.FindStringIndex(named); hint != nil {
				named = named[:hint[0]]
			}

			if tokens := token.FindAllStringIndex(named, -1); len(tokens) > 0 {
				last := tokens[len(tokens)-1]
				statement.Correlation = text[from.end+last[0] : from.end+last[1]]
			}
		}
	}

	if hasWhere { // Predicate
		predicateEnd := len(text)
		if hasOrder {
			predicateEnd = order.start
		}

		statement.Predicate = span{start: where.end, end: predicateEnd}.of(text)
		if statement.Predicate == "" {
			return SelectStatement{}, fmt.Errorf("%w: empty WHERE clause", ErrMalformedStatement)
		}

		_, statement.Disjunctive = find(keywordOr, masked[:predicateEnd], where.end)
	}

	if hasOrder { // Ordering
		statement.Ordering = span{start: order.end, end: len(text)}.of(text)
		for _, item := range splitTopLevel(masked, order.end, len(text), ',') {
			orderItem := splitOrderItem(item.of(text))
			if orderItem.Expression == "" {
				return SelectStatement{}, fmt.Errorf("%w: empty ORDER BY item", ErrMalformedStatement)
			}

			statement.OrderBy = append(statement.OrderBy, orderItem)
		}
	}

	statement.Body = strings.TrimSpace(text[:bodyEnd])

	return statement, nil
}

func trimTerminator(masked string, text string) (string, string) {
	end := len(strings.TrimRightFunc(masked, unicode.IsSpace))
	if end > 0 && masked[end-1] == ';' {
		end = len(strings.TrimRightFunc(masked[:end-1], unicode.IsSpace))
	}

	return masked[:end], text[:end]
}

func splitColumn(masked string, text string, entry span) (Column, error) {
	column := Column{
		Text: entry.of(text),
	}

	if column.Text == "" {
		return Column{}, fmt.Errorf("%w: empty select-list entry", ErrMalformedStatement)
	}

	as, found := findLast(keywordAs, masked, entry.start, entry.end)
	if !found {
		column.Expression = column.Text
		return column, nil
	}

	column.Expression = span{start: entry.start, end: as.start}.of(text)
	column.Alias = span{start: as.end, end: entry.end}.of(text)
	if column.Expression == "" || column.Alias == "" {
		return Column{}, fmt.Errorf("%w: incomplete alias in %q", ErrMalformedStatement, column.Text)
	}

	return column, nil
}

func splitOrderItem(text string) OrderItem {
	item := OrderItem{
		Text:       text,
		Expression: text,
	}

	if loc := keywordDirection.FindStringSubmatchIndex(text); loc != nil {
		item.Expression = strings.TrimSpace(text[:loc[0]])
		item.Direction = text[loc[2]:loc[3]]
	}

	return item
}

func (statement SelectStatement) String() string {
	parts := []string{statement.Keyword}
	if statement.Quantifier != "" {
		parts = append(parts, statement.Quantifier)
	}

	parts = append(parts, statement.SelectList, "FROM", statement.Source)

	if statement.Predicate != "" {
		parts = append(parts, "WHERE", statement.Predicate)
	}

	if statement.Ordering != "" {
		parts = append(parts, "ORDER BY", statement.Ordering)
	}

	return strings.Join(parts, " ")
}

// Projection is the select-list together with its quantifier.
func (statement SelectStatement) Projection() string {
	if statement.Quantifier == "" {
		return statement.SelectList
	}

	return statement.Quantifier + " " + statement.SelectList
}

// GuardedPredicate is the predicate made safe to extend with AND.
func (statement SelectStatement) GuardedPredicate() string {
	if statement.Disjunctive {
		return "(" + statement.Predicate + ")"
	}

	return statement.Predicate
}

// WindowOrdering is the ordering usable inside OVER(...), where select-list
// aliases and positions are not in scope. Items naming an alias or a
// select-list position are replaced by the column's expression; otherwise
// the ordering is returned verbatim.
func (statement SelectStatement) WindowOrdering() (string, error) {
	aliases := map[string]string{}
	for _, column := range statement.Columns {
		if column.Alias != "" {
			aliases[identity(column.Alias)] = column.Expression
		}
	}

	substituted := false
	items := []string{}
	for _, item := range statement.OrderBy {
		expression, found := aliases[identity(item.Expression)]
		if ordinal, err := strconv.Atoi(item.Expression); err == nil {
			if ordinal < 1 || ordinal > len(statement.Columns) {
				return "", fmt.Errorf("%w: ORDER BY position %d is outside the select list", ErrMalformedStatement, ordinal)
			}

			expression = statement.Columns[ordinal-1].Expression
			if expression == "*" || strings.HasSuffix(expression, ".*") {
				return "", fmt.Errorf("%w: ORDER BY position %d names a wildcard", ErrMalformedStatement, ordinal)
			}
			found = true
		}

		if !found {
			items = append(items, item.Text)
			continue
		}

		substituted = true
		if item.Direction != "" {
			expression += " " + item.Direction
		}
		items = append(items, expression)
	}

	if !substituted {
		return statement.Ordering, nil
	}

	return strings.Join(items, ", "), nil
}

// NamesUnqualified reports whether a select-list expression or the predicate
// refers to column without a table or alias in front of it.
func (statement SelectStatement) NamesUnqualified(column string) bool {
	name := identity(column)

	expressions := sqlpagertools.Map(statement.Columns, func(entry Column) string {
		return entry.Expression
	})

	for _, expression := range append(expressions, statement.Predicate) {
		text := blankLiterals(expression)
		for _, loc := range reference.FindAllStringSubmatchIndex(text, -1) {
			// Function names and qualifiers of a wildcard
			rest := strings.TrimLeftFunc(text[loc[3]:], unicode.IsSpace)
			if strings.HasPrefix(rest, "(") || strings.HasPrefix(rest, ".") {
				continue
			}

			parts, err := SplitIdentifier(text[loc[2]:loc[3]])
			if err == nil && len(parts) == 1 && identity(parts[0]) == name {
				return true
			}
		}
	}

	return false
}

func identity(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 {
		if closer, found := quoteClosers[name[0]]; found && name[len(name)-1] == closer {
			name = name[1 : len(name)-1]
		}
	}

	return strings.ToLower(name)
}

// SplitIdentifier splits a possibly qualified, possibly quoted identifier
// such as [dbo].[d].[a] into its dotted parts.
func SplitIdentifier(identifier string) ([]string, error) {
	text := strings.TrimSpace(identifier)
	if text == "" {
		return nil, fmt.Errorf("%w: blank", ErrMalformedIdentifier)
	}

	masked, clean, err := scan(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %s", ErrMalformedIdentifier, identifier, err)
	}

	if len(token.FindAllStringIndex(masked, -1)) != 1 || strings.ContainsAny(masked, "(,") {
		return nil, fmt.Errorf("%w: %q is not a column reference", ErrMalformedIdentifier, identifier)
	}

	parts := sqlpagertools.Map(splitTopLevel(masked, 0, len(masked), '.'), func(s span) string {
		return s.of(clean)
	})

	if len(sqlpagertools.Filter(parts, func(part string) bool { return part == "" })) > 0 {
		return nil, fmt.Errorf("%w: %q has an empty part", ErrMalformedIdentifier, identifier)
	}

	return parts, nil
}
