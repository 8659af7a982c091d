package domain

import "errors"

var (
	// ErrNutritionAPIUnavailable is returned when the nutrition API cannot be consulted
	// because its credentials are not configured
	ErrNutritionAPIUnavailable = errors.New("nutrition API credentials are missing")

	// ErrNutritionAPIFailure is returned when the nutrition API request fails
	ErrNutritionAPIFailure = errors.New("nutrition API request failed")

	// ErrMalformedResponse is returned when the nutrition API payload cannot be decoded
	ErrMalformedResponse = errors.New("malformed nutrition API response")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidDate is returned when a date is not a YYYY-MM-DD calendar date
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

	// ErrInvalidMealType is returned for meal types outside the fixed enumeration
	ErrInvalidMealType = errors.New("invalid meal type")

	// ErrEntryNotFound is returned when no daily entry exists for a date
	ErrEntryNotFound = errors.New("daily entry not found")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
