package domain

import (
	"errors"
	"fmt"
)

var (
	ErrScheduleConfig   = errors.New("schedule_config_error")
	ErrTemplateNotFound = errors.New("template_not_found")
	ErrInvalidRecordID  = errors.New("invalid_record_id")
	ErrNotFound         = errors.New("not_found")
	ErrInvalidStages    = errors.New("invalid_stages")
)

// ScheduleConfigError describes why a template or stage list was rejected.
// Index is the zero-based stage index, or -1 for list-level problems.
type ScheduleConfigError struct {
	Template string
	Index    int
	Reason   string
}

func (e *ScheduleConfigError) Error() string {
	prefix := "schedule config"
	if e.Template != "" {
		prefix = fmt.Sprintf("schedule config %q", e.Template)
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s: stage %d: %s", prefix, e.Index+1, e.Reason)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Reason)
}

func (e *ScheduleConfigError) Is(target error) bool {
	return target == ErrScheduleConfig
}
