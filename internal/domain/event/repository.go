package event

import "context"

// Repository describes event-type catalog persistence needs from use cases.
// The catalog is populated out of band and treated as read-only at request time.
type Repository interface {
	List(ctx context.Context) ([]TypeDefinition, error)
	GetByCode(ctx context.Context, code string) (TypeDefinition, bool, error)
}
