// Package port defines the interfaces between the review engine and its
// collaborators: persistence, sessions, navigation and notifications.
package port

import (
	"context"

	"github.com/franky15/billed-portal/internal/domain/entity"
)

// BillRepository defines persistence operations for Bill. The bill id is
// the sole transaction key for updates.
type BillRepository interface {
	// Create persists a new bill record
	Create(ctx context.Context, bill *entity.Bill) error

	// GetByID retrieves a bill by its id, nil when absent
	GetByID(ctx context.Context, id string) (*entity.Bill, error)

	// List returns a snapshot of every bill record
	List(ctx context.Context) ([]entity.Bill, error)

	// Update replaces the record identified by bill.ID with the full
	// mutated record
	Update(ctx context.Context, bill *entity.Bill) error
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
