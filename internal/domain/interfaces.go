package domain

import "context"

// PersistenceGateway loads and saves the full employee collection.
// Save must be idempotent: saving the same records twice yields the same persisted state.
type PersistenceGateway interface {
	Load(ctx context.Context) ([]Employee, error)
	Save(ctx context.Context, employees []Employee) error
}

// NotificationGateway informs the outside world about newly created employees.
// Delivery is best-effort; callers must not roll back on failure.
type NotificationGateway interface {
	NotifyCreated(ctx context.Context, e Employee) error
}
