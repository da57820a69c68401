package services

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidProduct = errors.New("invalid product")
	ErrInvalidRates   = errors.New("invalid exchange rates")
)
