package database

import (
	"context"
	"reflect"

	"github.com/lunagic/sqlpager/sqlpagerservices/database/internal/utils"
)

// NewRepository builds a read-only repository over the table of T. The
// fields of Repository.T stand in for its columns in operators and
// orderings.
func NewRepository[T Entity](service *Service, baseModifiers ...func(ctx context.Context, t *T) (QueryModifier, error)) Repository[T] {
	baseQuery, err := generateBaseQuery(*new(T))
	if err != nil {
		panic(err)
	}

	r := Repository[T]{
		selector:      NewSelector[T](service, baseQuery),
		T:             new(T),
		BaseModifiers: baseModifiers,
	}

	for _, field := range utils.ColumnFields(reflect.ValueOf(r.T)) {
		service.mapping[field.Value.UnsafeAddr()] = columnReference{
			Table:  baseQuery.From,
			Column: field.Tag.Column,
		}
	}

	return r
}

type Repository[T Entity] struct {
	selector      Selector[T]
	T             *T
	BaseModifiers []func(ctx context.Context, t *T) (QueryModifier, error)
}

func (repository *Repository[T]) withBaseModifiers(ctx context.Context, mods []QueryModifier) ([]QueryModifier, error) {
	for _, mod := range repository.BaseModifiers {
		queryModifier, err := mod(ctx, repository.T)
		if err != nil {
			return nil, err
		}

		// Prepend the base modifiers
		mods = append([]QueryModifier{queryModifier}, mods...)
	}

	return mods, nil
}

func (repository *Repository[T]) SelectMultiple(ctx context.Context, mods ...QueryModifier) ([]T, error) {
	mods, err := repository.withBaseModifiers(ctx, mods)
	if err != nil {
		return nil, err
	}

	return repository.selector.SelectMultiple(ctx, mods...)
}

func (repository *Repository[T]) SelectSingle(ctx context.Context, mods ...QueryModifier) (T, error) {
	mods, err := repository.withBaseModifiers(ctx, mods)
	if err != nil {
		return *new(T), err
	}

	return repository.selector.SelectSingle(ctx, mods...)
}

func (repository *Repository[T]) SelectPage(ctx context.Context, skip int, take int, mods ...QueryModifier) ([]T, error) {
	mods, err := repository.withBaseModifiers(ctx, mods)
	if err != nil {
		return nil, err
	}

	return repository.selector.SelectPage(ctx, skip, take, mods...)
}
