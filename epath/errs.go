package epath

import "errors"

var (
	ErrPathNotFound  = errors.New("path not found")
	ErrTypeMismatch  = errors.New("type mismatch")
	ErrNotExpandable = errors.New("not expandable")
)
