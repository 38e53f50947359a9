package repository

import (
	"context"

	"github.com/smallbiznis/runway/pkg/db/option"
)

// Repository is a generic gorm-backed store for simple ledger-style tables.
type Repository[T any] interface {
	Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error)
	Create(ctx context.Context, resource *T) error
	Delete(ctx context.Context, resourceID any) (int64, error)
}
