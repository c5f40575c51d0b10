package users

import "context"

// Repo is the user persistence collaborator. Implementations must be safe
// for concurrent use.
//
// Find returns (nil, nil) when no user has the given username: absence is a
// legitimate lookup outcome, not a fault. Errors are reserved for storage
// failures.
type Repo interface {
	Add(ctx context.Context, user *User) error
	Find(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Delete(ctx context.Context, username string) error
	List(ctx context.Context, offset, limit int) ([]*User, error)
}
