package pager

import (
	"fmt"
	"strings"

	"github.com/lunagic/sqlpager/pager/internal/clause"
	"github.com/lunagic/sqlpager/sqlpagertools"
)

type orderKey struct {
	Name      string
	Column    string
	Qualified bool
}

func parseOrderKeys(orderKeys []string) ([]orderKey, error) {
	if len(orderKeys) == 0 {
		return nil, fmt.Errorf("%w: at least one order key is required", ErrInvalidArgument)
	}

	keys := []orderKey{}
	for _, name := range orderKeys {
		parts, err := clause.SplitIdentifier(name)
		if err != nil {
			return nil, fmt.Errorf("%w: order key: %s", ErrInvalidArgument, err)
		}

		keys = append(keys, orderKey{
			Name:      strings.TrimSpace(name),
			Column:    parts[len(parts)-1],
			Qualified: len(parts) > 1,
		})
	}

	return keys, nil
}

func joinOrderKeys(keys []orderKey) string {
	return strings.Join(sqlpagertools.Map(keys, func(key orderKey) string {
		return key.Name
	}), ", ")
}

// ordering is the statement's own ORDER BY, or the order keys when it has
// none.
func ordering(statement clause.SelectStatement, keys []orderKey) string {
	if statement.Ordering != "" {
		return statement.Ordering
	}

	return joinOrderKeys(keys)
}

func validateMaxRows(maxRows int) error {
	if maxRows <= 0 {
		return fmt.Errorf("%w: maxRows must be positive, got %d", ErrInvalidArgument, maxRows)
	}

	return nil
}
