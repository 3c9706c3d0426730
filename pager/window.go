package pager

import (
	"fmt"
	"math"
)

// Window is a zero-based skip and a row count. Its bounds are the 1-based,
// inclusive row numbers that ROW_NUMBER() assigns to the rows it covers.
type Window struct {
	Skip int
	Take int
}

func NewWindow(skip int, take int) (Window, error) {
	if skip < 0 {
		return Window{}, fmt.Errorf("%w: skip must not be negative, got %d", ErrInvalidArgument, skip)
	}

	if take <= 0 {
		return Window{}, fmt.Errorf("%w: take must be positive, got %d", ErrInvalidArgument, take)
	}

	if skip > math.MaxInt-take {
		return Window{}, fmt.Errorf("%w: skip %d and take %d overflow", ErrInvalidArgument, skip, take)
	}

	return Window{
		Skip: skip,
		Take: take,
	}, nil
}

func (window Window) LowerBound() int {
	return window.Skip + 1
}

func (window Window) UpperBound() int {
	return window.Skip + window.Take
}
