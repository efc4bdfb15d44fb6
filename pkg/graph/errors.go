package graph

import "errors"

// Common graph errors
var (
	ErrMalformedEdge = errors.New("malformed edge")
)
