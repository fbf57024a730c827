// Copyright (c) 2026 Conduit. All rights reserved.

package article

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conduithq/conduit/internal/platform/database/schema"
	"github.com/conduithq/conduit/internal/platform/dberr"
)

// PostgresFavoriteRepository implements [FavoriteRepository] using pgx.
//
// # Idempotency
//
// Favorite/Unfavorite are idempotent at the SQL level (ON CONFLICT DO
// NOTHING and unconditional DELETE), so retried requests never surface
// constraint errors.
type PostgresFavoriteRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFavoriteRepository creates the production favorite store.
func NewPostgresFavoriteRepository(pool *pgxpool.Pool) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{pool: pool}
}

// Favorite inserts the user → article edge, ignoring duplicates.
func (repository *PostgresFavoriteRepository) Favorite(ctx context.Context, userID, articleID string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s, %s) DO NOTHING`,
		schema.SocialFavorite.Table,
		schema.SocialFavorite.UserID, schema.SocialFavorite.ArticleID, schema.SocialFavorite.CreatedAt,
		schema.SocialFavorite.UserID, schema.SocialFavorite.ArticleID,
	)

	_, err := repository.pool.Exec(ctx, query, userID, articleID, time.Now())
	if err != nil {
		return dberr.Wrap(err, "favorite_repo_favorite")
	}

	return nil
}

// Unfavorite deletes the edge. A missing edge deletes zero rows and succeeds.
func (repository *PostgresFavoriteRepository) Unfavorite(ctx context.Context, userID, articleID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE %s = $1 AND %s = $2`,
		schema.SocialFavorite.Table,
		schema.SocialFavorite.UserID, schema.SocialFavorite.ArticleID,
	)

	_, err := repository.pool.Exec(ctx, query, userID, articleID)
	if err != nil {
		return dberr.Wrap(err, "favorite_repo_unfavorite")
	}

	return nil
}

// IsFavorited reports whether the user → article edge exists.
func (repository *PostgresFavoriteRepository) IsFavorited(ctx context.Context, userID, articleID string) (bool, error) {
	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s
			WHERE %s = $1 AND %s = $2
		)`,
		schema.SocialFavorite.Table,
		schema.SocialFavorite.UserID, schema.SocialFavorite.ArticleID,
	)

	var exists bool
	if err := repository.pool.QueryRow(ctx, query, userID, articleID).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "favorite_repo_is_favorited")
	}

	return exists, nil
}

// Count returns the number of users that favorited the article.
func (repository *PostgresFavoriteRepository) Count(ctx context.Context, articleID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE %s = $1`,
		schema.SocialFavorite.Table, schema.SocialFavorite.ArticleID,
	)

	var count int
	if err := repository.pool.QueryRow(ctx, query, articleID).Scan(&count); err != nil {
		return 0, dberr.Wrap(err, "favorite_repo_count")
	}

	return count, nil
}

// CountSet returns favorite counts for a batch of article ids in one
// round-trip. Articles with zero favorites are absent from the map.
func (repository *PostgresFavoriteRepository) CountSet(ctx context.Context, articleIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(articleIDs))
	if len(articleIDs) == 0 {
		return counts, nil
	}

	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) FROM %s
		WHERE %s = ANY($1)
		GROUP BY %s`,
		schema.SocialFavorite.ArticleID, schema.SocialFavorite.Table,
		schema.SocialFavorite.ArticleID, schema.SocialFavorite.ArticleID,
	)

	rows, err := repository.pool.Query(ctx, query, articleIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "favorite_repo_count_set")
	}
	defer rows.Close()

	for rows.Next() {
		var articleID string
		var count int
		if err := rows.Scan(&articleID, &count); err != nil {
			return nil, dberr.Wrap(err, "favorite_repo_count_set_scan")
		}
		counts[articleID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "favorite_repo_count_set_rows")
	}

	return counts, nil
}

// FavoritedSet resolves the favorite state for a batch of article ids in
// one round-trip. Articles without an edge are absent from the map.
func (repository *PostgresFavoriteRepository) FavoritedSet(ctx context.Context, userID string, articleIDs []string) (map[string]bool, error) {
	set := make(map[string]bool, len(articleIDs))
	if len(articleIDs) == 0 {
		return set, nil
	}

	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE %s = $1 AND %s = ANY($2)`,
		schema.SocialFavorite.ArticleID, schema.SocialFavorite.Table,
		schema.SocialFavorite.UserID, schema.SocialFavorite.ArticleID,
	)

	rows, err := repository.pool.Query(ctx, query, userID, articleIDs)
	if err != nil {
		return nil, dberr.Wrap(err, "favorite_repo_favorited_set")
	}
	defer rows.Close()

	for rows.Next() {
		var articleID string
		if err := rows.Scan(&articleID); err != nil {
			return nil, dberr.Wrap(err, "favorite_repo_favorited_set_scan")
		}
		set[articleID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "favorite_repo_favorited_set_rows")
	}

	return set, nil
}
