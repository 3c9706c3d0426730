package database

import "fmt"

// bindings collects the named parameters of a single statement. Names are
// numbered so that two conditions on one column never collide.
type bindings struct {
	parameters map[string]any
}

func newBindings() *bindings {
	return &bindings{
		parameters: map[string]any{},
	}
}

func (b *bindings) bind(value any) string {
	key := fmt.Sprintf(":p%d", len(b.parameters)+1)
	b.parameters[key] = value

	return key
}

type OperatorOfLogic interface {
	OperatorOfEvaluation
	hasAny() bool
}

type simpleOperatorOfLogic struct {
	operatorKeyword     string
	operatorsEvaluation []OperatorOfEvaluation
}

func (o simpleOperatorOfLogic) hasAny() bool {
	return len(o.operatorsEvaluation) > 0
}

func (o simpleOperatorOfLogic) haveDriverRender(driver Driver, b *bindings) (string, error) {
	return driver.generateSimpleOperatorOfLogic(o, b)
}

type OperatorOfEvaluation interface {
	haveDriverRender(driver Driver, b *bindings) (string, error)
}

func And(operatorsEvaluation ...OperatorOfEvaluation) OperatorOfLogic {
	return simpleOperatorOfLogic{
		operatorKeyword:     "AND",
		operatorsEvaluation: operatorsEvaluation,
	}
}

func Or(operatorsEvaluation ...OperatorOfEvaluation) OperatorOfLogic {
	return simpleOperatorOfLogic{
		operatorKeyword:     "OR",
		operatorsEvaluation: operatorsEvaluation,
	}
}

func Equal[T any](column *T, value T) OperatorOfEvaluation {
	return simpleOperatorOfEquality{
		Column:   column,
		Operator: "=",
		Value:    value,
	}
}

func GreaterThan[T any](column *T, value T) OperatorOfEvaluation {
	return simpleOperatorOfEquality{
		Column:   column,
		Operator: ">",
		Value:    value,
	}
}

func GreaterThanOrEqual[T any](column *T, value T) OperatorOfEvaluation {
	return simpleOperatorOfEquality{
		Column:   column,
		Operator: ">=",
		Value:    value,
	}
}

func LessThan[T any](column *T, value T) OperatorOfEvaluation {
	return simpleOperatorOfEquality{
		Column:   column,
		Operator: "<",
		Value:    value,
	}
}

func LessThanOrEqual[T any](column *T, value T) OperatorOfEvaluation {
	return simpleOperatorOfEquality{
		Column:   column,
		Operator: "<=",
		Value:    value,
	}
}

func NotEqual[T any](column *T, value T) OperatorOfEvaluation {
	return simpleOperatorOfEquality{
		Column:   column,
		Operator: "<>",
		Value:    value,
	}
}

func Like[T any](column *T, value T) OperatorOfEvaluation {
	return simpleOperatorOfEquality{
		Column:   column,
		Operator: "LIKE",
		Value:    value,
	}
}

type simpleOperatorOfEquality struct {
	Column   any
	Operator string
	Value    any
}

func (o simpleOperatorOfEquality) haveDriverRender(driver Driver, b *bindings) (string, error) {
	return driver.generateSimpleOperatorOfEquality(o, b)
}

// Ordering sorts the rows of a query by one mapped column.
type Ordering struct {
	Column    any
	Direction string
}

func Ascending[T any](column *T) Ordering {
	return Ordering{
		Column:    column,
		Direction: "ASC",
	}
}

func Descending[T any](column *T) Ordering {
	return Ordering{
		Column:    column,
		Direction: "DESC",
	}
}
