package domain

import "context"

type Service interface {
	Get(ctx context.Context, recordID string) (*PersistedSchedule, error)
	List(ctx context.Context) (map[string]*PersistedSchedule, error)
	Save(ctx context.Context, req SaveRequest) (*PersistedSchedule, error)
	Delete(ctx context.Context, recordID string) error
}

// SaveRequest carries the stages to persist. TemplateName records which
// template the stages were derived from, if any.
type SaveRequest struct {
	RecordID     string  `json:"record_id"`
	TemplateName string  `json:"template_name"`
	Stages       []Stage `json:"stages"`
}
