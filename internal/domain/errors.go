package domain

import "errors"

var (
	// ErrProductNotFound is returned when a canonical product cannot be found
	ErrProductNotFound = errors.New("canonical product not found")

	// ErrListingNotFound is returned when a vendor listing link does not exist
	ErrListingNotFound = errors.New("vendor listing not found")

	// ErrInvalidListing is returned when an incoming listing fails validation
	ErrInvalidListing = errors.New("invalid incoming listing")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrStorageUnavailable is returned when the database cannot be reached
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrFeedUnavailable is returned when a vendor feed request fails
	ErrFeedUnavailable = errors.New("vendor feed request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
