package models

import "errors"

var (
	ErrEntryNotFound    = errors.New("entry not found")
	ErrInvalidContent   = errors.New("invalid content")
	ErrInvalidDateRange = errors.New("invalid date range")
)
