package closeout

import "errors"

var (
	ErrLotNotFound      = errors.New("Lot not found")
	ErrLotAlreadyClosed = errors.New("Lot is already closed")
	ErrInvalidSalePrice = errors.New("Sale price per arroba must be a positive number")
)
