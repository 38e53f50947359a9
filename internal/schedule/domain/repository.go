package domain

import "context"

type Repository interface {
	FindByRecordID(ctx context.Context, recordID string) (*PaymentSchedule, error)
	List(ctx context.Context) ([]PaymentSchedule, error)
	Upsert(ctx context.Context, schedule *PaymentSchedule) error
	Delete(ctx context.Context, recordID string) error
}
