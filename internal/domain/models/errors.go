package models

import "errors"

var (
	// ErrInvalidInput covers negative prices, missing required fields and empty sale accounts.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates no article carries the requested id.
	ErrNotFound = errors.New("article not found")

	// ErrAlreadySold indicates a sale was attempted on a sold article.
	ErrAlreadySold = errors.New("article already sold")

	// ErrStorageUnavailable indicates the persistence backend failed. The action can be retried.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
