package clause

import (
	"regexp"
)

// Anything that cannot appear in an identifier separates keywords. T-SQL
// identifiers include @, # and $, so @from and #where are never keywords.
const separatorClass = `[^\w@#$]`

var (
	keywordSelect     = leading(`SELECT`)
	keywordQuantifier = leading(`DISTINCT|ALL`)
	keywordTop        = leading(`TOP`)
	keywordFrom       = keyword(`FROM`)
	keywordWhere      = keyword(`WHERE`)
	keywordOrderBy    = keyword(`ORDER\s+BY`)
	keywordAs         = keyword(`AS`)
	keywordOr         = keyword(`OR`)
	keywordDirection  = regexp.MustCompile(`(?i)\s(ASC|DESC)\s*$`)
	token             = regexp.MustCompile(`[^\s]+`)

	unsupported = []struct {
		pattern *regexp.Regexp
		reason  string
	}{
		{keyword(`UNION|INTERSECT|EXCEPT`), "set operations are not supported"},
		{keyword(`GROUP\s+BY|HAVING`), "grouping is not supported"},
		{keyword(`(?:LIMIT|OFFSET)\s+` + rowCount), "statement is already paginated"},
		{keyword(`FETCH\s+(?:FIRST|NEXT)`), "statement is already paginated"},
		{keyword(`INTO`), "SELECT INTO is not supported"},
		{keyword(`JOIN|(?:CROSS|OUTER)\s+APPLY`), "joined sources are not supported"},
	}

	// tableHint matches a trailing WITH (NOLOCK) style hint on a source.
	tableHint = regexp.MustCompile(`(?i)(?:(?:^|\s)WITH)?\s*\([^()]*\)\s*$`)

	reference = regexp.MustCompile(`(?:^|[^\w@#$:.])(` + identifierPart + `(?:\s*\.\s*` + identifierPart + `)*)`)
)

// LIMIT, OFFSET and FETCH are only clauses when a row count follows, so
// columns named offset or fetch stay usable.
const rowCount = `(?:\d+|[@:?$]\w*|\()`

const identifierPart = `(?:\[(?:[^\]]|\]\])*\]|"(?:[^"]|"")*"|` + "`(?:[^`]|``)*`" + `|[A-Za-z_][\w@#$]*)`

func keyword(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|` + separatorClass + `)(` + pattern + `)(?:` + separatorClass + `|$)`)
}

func leading(pattern string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)^\s*(` + pattern + `)(?:` + separatorClass + `|$)`)
}

// find returns the bounds of the first match of re's keyword group in
// masked at or after from.
func find(re *regexp.Regexp, masked string, from int) (span, bool) {
	loc := re.FindStringSubmatchIndex(masked[from:])
	if loc == nil {
		return span{}, false
	}

	return span{start: from + loc[2], end: from + loc[3]}, true
}

// findLast returns the bounds of the last match of re's keyword group in
// masked[from:to].
func findLast(re *regexp.Regexp, masked string, from int, to int) (span, bool) {
	last := span{}
	found := false
	for from < to {
		match, ok := find(re, masked[:to], from)
		if !ok {
			break
		}

		last = match
		found = true
		from = match.end
	}

	return last, found
}
