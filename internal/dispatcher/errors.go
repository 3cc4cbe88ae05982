package dispatcher

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedOperation = errors.New("unsupported operation")
	ErrInvalidParam         = errors.New("invalid parameter")
)

// ItemError aborts a strict batch and names the failing item.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d: %s", e.Index, e.Err.Error())
}

func (e *ItemError) Unwrap() error {
	return e.Err
}

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParam, fmt.Sprintf(format, args...))
}
