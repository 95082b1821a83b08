package gplay

import "errors"

var (
	// ErrNotFound is returned when the store has no page for the
	// requested app, developer or list.
	ErrNotFound = errors.New("not found on the play store")
	// ErrRateLimited is returned on HTTP 429, the frontend throttles
	// aggressive scraping.
	ErrRateLimited = errors.New("rate limited by the play frontend")
	// ErrParse is returned when a page or RPC payload does not have
	// the shape we know how to read.
	ErrParse = errors.New("failed to parse play store payload")
	// ErrInvalidInput is returned before any network call when a
	// required query parameter is blank.
	ErrInvalidInput = errors.New("invalid input")
)
