package common

import (
	"errors"
	"net/http"
)

// Business logic errors
var (
	// General errors
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("expired token")

	// Lookup errors
	ErrUserNotFound         = errors.New("user not found")
	ErrRecipeNotFound       = errors.New("recipe not found")
	ErrShoppingListNotFound = errors.New("shopping list not found")
	ErrMealPlanNotFound     = errors.New("meal plan not found")

	// Message errors
	ErrMessageEmpty     = errors.New("message must have a body or a recipe")
	ErrMissingOtherUser = errors.New("user parameter is required")
	ErrTitleExhausted   = errors.New("could not find a free recipe title")
)

// HTTPStatus maps a service error to its HTTP status code
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidToken), errors.Is(err, ErrExpiredToken):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrRecipeNotFound),
		errors.Is(err, ErrShoppingListNotFound),
		errors.Is(err, ErrMealPlanNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrMessageEmpty):
		return http.StatusPreconditionFailed
	case errors.Is(err, ErrMissingOtherUser), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
