package domain

import "errors"

var (
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrDuplicateKey           = errors.New("duplicate key")
	ErrNotFound               = errors.New("not found")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrNotSeenByCook          = errors.New("dish not seen by cook")
	ErrInsufficientIngredient = errors.New("insufficient ingredient")
)
