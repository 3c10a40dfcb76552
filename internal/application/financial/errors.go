package financial

import "errors"

var (
	ErrRecordNotFound   = errors.New("Financial record not found")
	ErrInvalidType      = errors.New("Type must be income or expense")
	ErrCategoryRequired = errors.New("Category is required")
	ErrInvalidAmount    = errors.New("Amount must be a positive number")
)
