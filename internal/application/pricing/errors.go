package pricing

import "errors"

var (
	ErrIngredientNotFound = errors.New("Ingredient not found")
	ErrNameRequired       = errors.New("Ingredient name is required")
	ErrInvalidPrice       = errors.New("Price must be a positive number")
)
