package domain

import "errors"

var (
	ErrProjectNotFound       = errors.New("project_not_found")
	ErrInvalidRecordID       = errors.New("invalid_record_id")
	ErrInvalidOverrideAmount = errors.New("invalid_override_amount")
	ErrRecordBusy            = errors.New("record_busy")
	ErrInvalidRequest        = errors.New("invalid_request")
)
