package domain

import "errors"

var (
	ErrInvalidRecordID       = errors.New("invalid_record_id")
	ErrInvalidOverrideAmount = errors.New("invalid_override_amount")
)
