// Copyright (c) 2026 Conduit. All rights reserved.

/*
Package profile (Postgres) implements the storage layer for the follow graph.

# Schema Table Mapping
  - users.follow: Directed follower → following edges.

# Idempotency

Follow/Unfollow are idempotent at the SQL level (ON CONFLICT DO NOTHING and
unconditional DELETE), so retried requests never surface constraint errors.
*/
package profile

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conduithq/conduit/internal/platform/database/schema"
	"github.com/conduithq/conduit/internal/platform/dberr"
)

// PostgresFollowRepository implements [FollowRepository] using pgx.
type PostgresFollowRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFollowRepository creates the production follow-graph store.
func NewPostgresFollowRepository(pool *pgxpool.Pool) *PostgresFollowRepository {
	return &PostgresFollowRepository{pool: pool}
}

// Follow inserts the follower → following edge, ignoring duplicates.
func (repository *PostgresFollowRepository) Follow(ctx context.Context, followerID, followingID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.UserFollow.Table,
		schema.UserFollow.FollowerID, schema.UserFollow.FollowingID, schema.UserFollow.CreatedAt,
		schema.UserFollow.FollowerID, schema.UserFollow.FollowingID,
	)

	_, err := repository.pool.Exec(ctx, query, followerID, followingID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "follow_repo_follow")
	}

	return nil
}

// Unfollow deletes the edge. A missing edge deletes zero rows and succeeds.
func (repository *PostgresFollowRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1 AND %s = $2`,
		schema.UserFollow.Table,
		schema.UserFollow.FollowerID, schema.UserFollow.FollowingID,
	)

	_, err := repository.pool.Exec(ctx, query, followerID, followingID)
	if err != nil {
		return dberr.Wrap(err, "follow_repo_unfollow")
	}

	return nil
}

// IsFollowing reports whether the follower → following edge exists.
func (repository *PostgresFollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE %s = $1 AND %s = $2
		)`,
		schema.UserFollow.Table,
		schema.UserFollow.FollowerID, schema.UserFollow.FollowingID,
	)

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, followerID, followingID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "follow_repo_is_following")
	}

	return exists, nil
}

// FolloweeIDs lists every account id the follower follows.
func (repository *PostgresFollowRepository) FolloweeIDs(ctx context.Context, followerID string) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1`,
		schema.UserFollow.FollowingID, schema.UserFollow.Table,
		schema.UserFollow.FollowerID,
	)

	rows, err := repository.pool.Query(ctx, query, followerID)
	if err != nil {
		return nil, dberr.Wrap(err, "follow_repo_followee_ids")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "follow_repo_followee_ids_scan")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "follow_repo_followee_ids_rows")
	}

	return ids, nil
}

// FollowingSet resolves the follow state for a batch of target ids in one
// round-trip. Targets without an edge are simply absent from the map.
func (repository *PostgresFollowRepository) FollowingSet(ctx context.Context, followerID string, targetIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(targetIDs))
	if len(targetIDs) == 0 {
		return set, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = ANY($2)`,
		schema.UserFollow.FollowingID, schema.UserFollow.Table,
		schema.UserFollow.FollowerID, schema.UserFollow.FollowingID,
	)

	rows, err := repository.pool.Query(ctx, query, followerID, targetIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "follow_repo_following_set")
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dberr.Wrap(err, "follow_repo_following_set_scan")
		}
		set[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "follow_repo_following_set_rows")
	}

	return set, nil
}
