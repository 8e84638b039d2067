package record

import "context"

// ListFilter narrows List. A zero UserID lists every record.
type ListFilter struct {
	UserID int64
}

// Repository defines the interface for record persistence
type Repository interface {
	// Create stores r and assigns its ID
	Create(ctx context.Context, r *Record) error

	// List returns records newest first
	List(ctx context.Context, filter ListFilter) ([]*Record, error)

	// GetByID returns ErrRecordNotFound when missing
	GetByID(ctx context.Context, id int64) (*Record, error)

	// Delete returns ErrRecordNotFound when missing
	Delete(ctx context.Context, id int64) error
}
