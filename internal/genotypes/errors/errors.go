package errors

import "errors"

var (
	ErrNotFound = errors.New("genotype not found")

	ErrInvalidID = errors.New("invalid genotype ID format")

	ErrAlreadyParsed = errors.New("genotype has already been parsed")
)
