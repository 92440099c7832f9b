package domain

import "errors"

var (
	// ErrInvalidContract is returned for contract codes outside TU, FV, TY, TN, US, UB.
	ErrInvalidContract = errors.New("invalid contract")
	// ErrFetch is returned when the reference data provider is unreachable
	// or answers with something other than a JSON list of securities.
	ErrFetch = errors.New("fetch securities")
)
