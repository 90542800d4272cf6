package errs

import "errors"

var (
	// ErrInvalidInputKind indicates an input value of the wrong shape or kind, such as a
	// non-string tag field, a missing identifier or a non-numeric score.
	ErrInvalidInputKind = errors.New("invalid input kind")

	// ErrInvalidArgument indicates a caller-supplied parameter outside its valid domain.
	ErrInvalidArgument = errors.New("invalid argument")
)
