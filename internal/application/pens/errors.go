package pens

import "errors"

var (
	ErrPenNotFound      = errors.New("Pen not found")
	ErrNumberRequired   = errors.New("Pen number is required")
	ErrNumberTaken      = errors.New("Pen number is already in use")
	ErrInvalidCapacity  = errors.New("Capacity must be a positive number")
	ErrInvalidFeedBound = errors.New("Feed bounds must be non-negative and min must not exceed max")
	ErrInvalidStatus    = errors.New("Status must be active or inactive")
)
