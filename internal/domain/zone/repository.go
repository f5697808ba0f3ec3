package zone

import "context"

// Repository describes forbidden-zone catalog persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Restriction, error)
	GetByZoneID(ctx context.Context, zoneID int) (Restriction, bool, error)
}
