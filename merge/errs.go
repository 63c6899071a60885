package merge

import "errors"

var (
	ErrConflictingProperty = errors.New("conflicting property")
	ErrDuplicateIndex      = errors.New("duplicate index")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrIncompleteAssembly  = errors.New("incomplete assembly")
)
