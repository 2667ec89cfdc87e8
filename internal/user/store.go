package user

import "context"

// Store provides persistence operations for users. Implementations live in
// internal/store/postgres and internal/store/memory.
type Store interface {
	Create(ctx context.Context, in CreateUserInput) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	ListByTeam(ctx context.Context, team string) ([]*User, error)
	Update(ctx context.Context, id string, in UpdateUserInput) (*User, error)
	Delete(ctx context.Context, id string) error
}
