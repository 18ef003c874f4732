package services

import "errors"

var (
	// ErrNotFound is returned when a buyer, seller, property or match does
	// not exist. Wrapped with the entity kind by the services.
	ErrNotFound = errors.New("not found")

	// ErrQuotaExhausted is returned by the quota gate when no active
	// subscription holds enough of the requested counter.
	ErrQuotaExhausted = errors.New("quota exhausted")

	// ErrConflict is returned for duplicate requests, double accepts and
	// repeated rejections.
	ErrConflict = errors.New("conflict")

	// ErrItemNotFound is the store-level miss for a single-item read.
	ErrItemNotFound = errors.New("item not found")

	// ErrConditionFailed is the store-level failure of a conditional
	// update: the condition did not hold at write time.
	ErrConditionFailed = errors.New("conditional update failed")
)
