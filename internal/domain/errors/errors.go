package errors

import "errors"

var (
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrIllegalState      = errors.New("illegal state")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrInvalidPrice      = errors.New("invalid price")
	ErrEmptyOrder        = errors.New("order must contain at least one item")
	ErrConflict          = errors.New("conflicting resource state")
)
