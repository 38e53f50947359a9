package domain

import "errors"

var (
	ErrAmbiguousWinProbability = errors.New("ambiguous_win_probability")
	ErrInvalidAmount           = errors.New("invalid_amount")
	ErrInvalidRecordID         = errors.New("invalid_record_id")
)
