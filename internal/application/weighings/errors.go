package weighings

import "errors"

var (
	ErrLotNotFound      = errors.New("Lot not found")
	ErrInvalidHeadCount = errors.New("Head weighed must be a positive number")
	ErrInvalidWeight    = errors.New("Average weight must be a positive number")
)
