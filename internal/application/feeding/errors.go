package feeding

import "errors"

var (
	ErrPenNotFound            = errors.New("Pen not found")
	ErrLotNotFound            = errors.New("Lot not found")
	ErrInvalidQuantity        = errors.New("Quantity must be a positive number")
	ErrNegativeLeftover       = errors.New("Leftover cannot be negative")
	ErrLeftoverExceedsDeliver = errors.New("Leftover cannot exceed the delivered quantity")
	ErrRecordNotFound         = errors.New("Feeding record not found")
)
