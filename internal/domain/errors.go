package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateItem indicates a variant is already present in the draft.
	ErrDuplicateItem = errors.New("variant already in draft")

	// ErrQuantityAtLimit indicates an increment would exceed the stock
	// snapshot taken when the variant was picked.
	ErrQuantityAtLimit = errors.New("quantity at stock limit")

	// ErrQuantityAtMinimum indicates a decrement would drop the quantity below one.
	ErrQuantityAtMinimum = errors.New("quantity at minimum")

	// ErrQuantityOutOfRange indicates a direct quantity edit outside [1, limit].
	ErrQuantityOutOfRange = errors.New("quantity out of range")
)
