// Copyright (c) 2026 Conduit. All rights reserved.

/*
Package user (Postgres) implements the storage layer for account identity.

# Schema Table Mapping
  - users.account: Master identity and profile data.

# Error Mapping

Storage-specific errors (like pgx.ErrNoRows) are mapped to domain-friendly
[apperr.AppError] types via [dberr.Wrap] so callers never see pgx internals.
*/
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conduithq/conduit/internal/platform/database/schema"
	"github.com/conduithq/conduit/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the production account store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// selectUserQuery builds the canonical account SELECT filtered by one column.
func selectUserQuery(filterColumn string) string {
	return fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.PasswordHash, schema.UserAccount.Bio, schema.UserAccount.Image,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		filterColumn,
	)
}

// findBy runs the canonical SELECT with one filter value and scans the row.
func (repository *PostgresRepository) findBy(ctx context.Context, filterColumn, value, action string) (*User, error) {
	user := &User{}
	err := repository.pool.QueryRow(ctx, selectUserQuery(filterColumn), value).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Bio,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, action)
	}

	return user, nil
}

/*
Create persists a new account row into users.account.

Parameters:
  - ctx: context.Context
  - user: *User (CreatedAt/UpdatedAt are stamped in place)

Returns:
  - error: apperr.Conflict on duplicate username/email, or execution failure
*/
func (repository *PostgresRepository) Create(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.PasswordHash, schema.UserAccount.Bio, schema.UserAccount.Image,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Bio,
		user.Image,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "user_repo_create")
	}

	return nil
}

// FindByID retrieves an account by primary key.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return repository.findBy(ctx, schema.UserAccount.ID, id, "user_repo_find_by_id")
}

// FindByEmail retrieves an account by its unique email address.
func (repository *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return repository.findBy(ctx, schema.UserAccount.Email, email, "user_repo_find_by_email")
}

// FindByUsername retrieves an account by its unique username.
func (repository *PostgresRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return repository.findBy(ctx, schema.UserAccount.Username, username, "user_repo_find_by_username")
}

/*
FindByIDs retrieves a batch of accounts keyed by id in one round-trip.

Description: Unknown ids are simply absent from the result map; callers that
need strict resolution must check for missing keys themselves.
*/
func (repository *PostgresRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*User, error) {
	users := make(map[string]*User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = ANY($1)`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.PasswordHash, schema.UserAccount.Bio, schema.UserAccount.Image,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
		schema.UserAccount.Table,
		schema.UserAccount.ID,
	)

	rows, err := repository.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "user_repo_find_by_ids")
	}
	defer rows.Close()

	for rows.Next() {
		user := &User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Bio,
			&user.Image,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "user_repo_find_by_ids_scan")
		}
		users[user.ID] = user
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "user_repo_find_by_ids_rows")
	}

	return users, nil
}

/*
Update persists the mutable account fields, password hash included.

The UpdatedAt timestamp is refreshed in place so callers see the stored value.
*/
func (repository *PostgresRepository) Update(ctx context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.PasswordHash,
		schema.UserAccount.Bio, schema.UserAccount.Image, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	user.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Bio,
		user.Image,
		user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "user_repo_update")
	}

	return nil
}
