package lots

import "errors"

var (
	ErrLotNotFound       = errors.New("Lot not found")
	ErrPenNotFound       = errors.New("Pen not found")
	ErrCostNotFound      = errors.New("Extra cost not found")
	ErrCodeRequired      = errors.New("Lot code is required")
	ErrCodeTaken         = errors.New("Lot code is already in use")
	ErrInvalidHeadCount  = errors.New("Head count must be a positive number")
	ErrInvalidWeight     = errors.New("Average entry weight must be a positive number")
	ErrInvalidEntryDate  = errors.New("Entry date is required")
	ErrInvalidDivisor    = errors.New("Arroba divisor must be a positive number")
	ErrInvalidCostAmount = errors.New("Cost amount must be a positive number")
	ErrLotClosed         = errors.New("Lot is closed")
)
