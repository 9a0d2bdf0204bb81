package register

import "errors"

// Errors returned by register operations.
var (
	ErrInvalidRegister = errors.New("invalid register name")
	ErrReadOnly        = errors.New("register is read-only")
)
