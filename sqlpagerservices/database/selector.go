package database

import (
	"context"

	"github.com/lunagic/sqlpager/pager"
)

func NewSelector[T any](service *Service, baseQuery Query) Selector[T] {
	return Selector[T]{
		service:   service,
		baseQuery: baseQuery,
	}
}

type Selector[T any] struct {
	service   *Service
	baseQuery Query
}

type QueryModifier func(query Query) Query

func WithLimitOverride(size int, offset int) QueryModifier {
	return func(query Query) Query {
		query.Limit.Count = size
		query.Limit.Offset = offset
		query.Limit.Paged = false

		return query
	}
}

func WithAdditionalWhere(where OperatorOfLogic) QueryModifier {
	return func(query Query) Query {
		if query.Where == nil {
			query.Where = where
		} else {
			query.Where = And(query.Where, where)
		}

		return query
	}
}

// WithOrderBy replaces the ordering of the query.
func WithOrderBy(orderings ...Ordering) QueryModifier {
	return func(query Query) Query {
		query.OrderBy = orderings

		return query
	}
}

func (selector *Selector[T]) SelectMultiple(ctx context.Context, mods ...QueryModifier) ([]T, error) {
	target := []T{}

	query := selector.baseQuery
	for _, mod := range mods {
		query = mod(query)
	}

	statement, err := selector.service.driver.generateSelect(query)
	if err != nil {
		return nil, err
	}

	if err := selector.service.runSelect(ctx, statement, &target); err != nil {
		return nil, err
	}

	return target, nil
}

func (selector *Selector[T]) SelectSingle(ctx context.Context, mods ...QueryModifier) (T, error) {
	mods = append(mods, WithLimitOverride(1, 0))

	rows, err := selector.SelectMultiple(ctx, mods...)
	if err != nil {
		return *new(T), err
	}

	if len(rows) < 1 {
		return *new(T), ErrNoRows
	}

	return rows[0], nil
}

// SelectPage returns rows skip+1 through skip+take. Without an explicit
// WithOrderBy the rows are ordered by the query's keys.
func (selector *Selector[T]) SelectPage(ctx context.Context, skip int, take int, mods ...QueryModifier) ([]T, error) {
	window, err := pager.NewWindow(skip, take)
	if err != nil {
		return nil, err
	}

	mods = append(mods, func(query Query) Query {
		query.Limit.Count = window.Take
		query.Limit.Offset = window.Skip
		query.Limit.Paged = true

		return query
	})

	return selector.SelectMultiple(ctx, mods...)
}
