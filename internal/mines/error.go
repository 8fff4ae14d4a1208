package mines

import "errors"

var (
	ErrInvalidDimensions = errors.New("board dimensions must be positive")
	ErrTooManyMines      = errors.New("mine count must be less than board area")
	ErrNegativeMines     = errors.New("mine count must not be negative")
)

type AssertionError struct {
	message string
}

// [AssertionError] implements [error]
func (e AssertionError) Error() string {
	return e.message
}
