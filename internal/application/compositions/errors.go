package compositions

import "errors"

var (
	ErrFeedTypeNotFound    = errors.New("Feed type not found")
	ErrNameRequired        = errors.New("Feed type name is required")
	ErrInvalidBaseQty      = errors.New("Base quantity must be a positive number")
	ErrNoItems             = errors.New("Composition needs at least one ingredient item")
	ErrInvalidItem         = errors.New("Composition item needs quantity and unit price")
	ErrCompositionNotFound = errors.New("Feed type has no composition yet")
)
