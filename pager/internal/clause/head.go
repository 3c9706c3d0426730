package clause

import (
	"fmt"
)

// Head locates where a row cap belongs in a SELECT without taking the rest
// of the statement apart.
type Head struct {
	Keyword string
	Limited bool

	// Insert is the offset just past SELECT and any DISTINCT or ALL.
	Insert int
}

func ParseHead(sql string) (Head, error) {
	masked, _, err := scan(sql)
	if err != nil {
		return Head{}, err
	}

	selectKeyword, found := find(keywordSelect, masked, 0)
	if !found {
		return Head{}, fmt.Errorf("%w: statement does not start with SELECT", ErrMalformedStatement)
	}

	head := Head{
		Keyword: sql[selectKeyword.start:selectKeyword.end],
		Insert:  selectKeyword.end,
	}

	if quantifier, found := find(keywordQuantifier, masked, head.Insert); found {
		head.Insert = quantifier.end
	}

	_, head.Limited = find(keywordTop, masked, head.Insert)

	return head, nil
}
