package domain

import "errors"

var (
	// ErrMarketplaceFailure is returned when a marketplace request fails at the transport or HTTP level
	ErrMarketplaceFailure = errors.New("marketplace request failed")

	// ErrBuildIDNotFound is returned when the page has no embedded build identifier
	ErrBuildIDNotFound = errors.New("build id not found")

	// ErrUnexpectedShape is returned when a JSON payload lacks the expected keys
	ErrUnexpectedShape = errors.New("unexpected response shape")

	// ErrNoLots is returned when the first page yields no lots
	ErrNoLots = errors.New("no lots found")

	// ErrValuationFailure is returned when the generation endpoint request fails
	ErrValuationFailure = errors.New("valuation request failed")

	// ErrUnparsedValuation is returned when a generated reply does not match the expected phrasing
	ErrUnparsedValuation = errors.New("valuation reply not parsed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
