// Copyright (c) 2026 Conduit. All rights reserved.

package user

import "context"

// Repository defines the persistence contract for user accounts.
//
// # Implementations
//
//   - [PostgresRepository]: The production pgx-backed store.
//   - In-memory fakes inside the package tests.
type Repository interface {
	// Create persists a brand new account.
	Create(ctx context.Context, user *User) error

	// FindByID retrieves an account by its UUID primary key.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail retrieves an account by its unique email address.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByUsername retrieves an account by its unique username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// Update persists changes to the mutable account fields, including
	// the password hash.
	Update(ctx context.Context, user *User) error
}

// LoginThrottle limits the rate of authentication attempts per client.
//
// # Implementations
//
//   - [RedisLoginThrottle]: Shared counter so the limit holds across replicas.
type LoginThrottle interface {
	// Allow records one attempt for the given client key and reports
	// whether the attempt is within the allowed budget.
	Allow(ctx context.Context, clientKey string) (bool, error)
}
