package device

import "context"

// Repository persists assistive units. Absent rows map to ErrNotFound.
type Repository interface {
	Create(ctx context.Context, rec CreateRequest) (int64, error)
	FindByID(ctx context.Context, id int64) (*Device, error)
	FindAll(ctx context.Context) ([]Device, error)
	Delete(ctx context.Context, id int64) error
}
