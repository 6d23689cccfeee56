package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness violation on insert.
	ErrAlreadyExists = errors.New("already exists")
	// ErrSlotTaken indicates the requested rental window conflicts with an
	// existing booking. Callers may retry with a different range.
	ErrSlotTaken = errors.New("rental slot already booked")
	// ErrInsufficientStock indicates the atomic stock decrement found fewer
	// units than requested.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrMixedCart indicates a cart holding both sale and rental lines.
	ErrMixedCart = errors.New("cart mixes sale and rental items")
)
