package database

type statement struct {
	Query      string
	Parameters map[string]any
}

// Query is a flat single-table SELECT. Keys name the columns that identify a
// row; they order and re-join paged results. A limit with an offset, or one
// marked Paged, is applied as a page so that every page shares one ordering.
type Query struct {
	Select  []string
	From    string
	Keys    []string
	Where   OperatorOfLogic
	OrderBy []Ordering
	Limit   struct {
		Count  int
		Offset int
		Paged  bool
	}
}
