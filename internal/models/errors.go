package models

import "errors"

// Custom errors
var (
	ErrMissingItemName  = errors.New("item name is required")
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrInvalidQuantity  = errors.New("quantity is out of range")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrInvalidPrice     = errors.New("price is not numeric")
	ErrInvalidSource    = errors.New("unknown acquisition source")
	ErrItemNotFound     = errors.New("item not found in catalog")
	ErrNotFound         = errors.New("record not found")
)

// Estimation errors
var (
	ErrNoTargets       = errors.New("no target figures given")
	ErrNegativeDraws   = errors.New("number of draws cannot be negative")
	ErrEmptyCatalog    = errors.New("catalog is empty")
	ErrSeriesNotFound  = errors.New("series not found in catalog")
	ErrLineNotFound    = errors.New("line not found in catalog")
	ErrSeriesNotInLine = errors.New("series does not belong to line")
	ErrAllTargetsOwned = errors.New("every target in the series is already owned")
)
