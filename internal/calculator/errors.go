package calculator

import "errors"

// ErrInvalidInput is reported when a calculation falls back to its zero value
var ErrInvalidInput = errors.New("calculator: invalid input")
