package domain

import "context"

// Repository is the store collaborator. Implementations hold an injected
// connection pool and release connections on every exit path.
type Repository interface {
	// Users
	GetUserWithEmail(ctx context.Context, email string) (User, error)
	GetUserWithID(ctx context.Context, id int64) (User, error)
	AddUser(ctx context.Context, u NewUser) (User, error)

	// Reservations
	GetAllReservations(ctx context.Context, guestID int64, limit int) ([]ReservationRow, error)

	// Properties
	SearchProperties(ctx context.Context, opts SearchOptions, limit int) ([]PropertyRow, error)
	AddProperty(ctx context.Context, p NewProperty) (Property, error)
	AddReview(ctx context.Context, r Review) (Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// FixtureSource yields raw seed records keyed by their fixture id.
type FixtureSource interface {
	Users(ctx context.Context) (map[string]map[string]any, error)
	Properties(ctx context.Context) (map[string]map[string]any, error)
	Reviews(ctx context.Context) ([]map[string]any, error)
}
