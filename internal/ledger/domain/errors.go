package domain

import "errors"

var (
	ErrInvalidAmount    = errors.New("invalid_amount")
	ErrInvalidFrequency = errors.New("invalid_frequency")
	ErrInvalidKind      = errors.New("invalid_kind")
	ErrInvalidDateRange = errors.New("invalid_date_range")
	ErrInvalidName      = errors.New("invalid_name")
	ErrInvalidItemType  = errors.New("invalid_item_type")
	ErrInvalidDate      = errors.New("invalid_date")
	ErrNotFound         = errors.New("not_found")
)
