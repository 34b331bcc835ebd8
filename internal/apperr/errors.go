package apperr

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrInvalidDiagram  = errors.New("invalid diagram")
	ErrInvalidArgument = errors.New("invalid argument")
)
