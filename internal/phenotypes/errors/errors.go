package errors

import "errors"

var (
	ErrNotFound = errors.New("phenotype not found")

	ErrInvalidID = errors.New("invalid phenotype ID format")

	ErrDuplicateCharacteristic = errors.New("phenotype characteristic already exists")

	ErrDuplicateUserPhenotype = errors.New("user already reported a variation for this phenotype")
)
