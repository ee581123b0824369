package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrFileRead        = errors.New("file read failed")
	ErrCorruptSnapshot = errors.New("corrupt profile snapshot")
)
