// Copyright (c) 2026 Conduit. All rights reserved.

/*
Package comment (Postgres) implements the storage layer for discussion.

# Schema Table Mapping
  - social.comment: Flat (non-nested) article comments.
*/
package comment

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

// NewPostgresRepository creates the production comment store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create persists a new comment row into social.comment.
func (repository *PostgresRepository) Create(ctx context.Context, comment *Comment) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.SocialComment.Table,
		schema.SocialComment.ID, schema.SocialComment.ArticleID, schema.SocialComment.AuthorID,
		schema.SocialComment.Body, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
	)

	now := time.Now()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now
	}
	comment.UpdatedAt = now

	_, err := repository.pool.Exec(ctx, query,
		comment.ID,
		comment.ArticleID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "comment_repo_create")
	}

	return nil
}

// FindByID retrieves a comment by primary key.
func (repository *PostgresRepository) FindByID(ctx context.Context, id string) (*Comment, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1`,
		schema.SocialComment.ID, schema.SocialComment.ArticleID, schema.SocialComment.AuthorID,
		schema.SocialComment.Body, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
		schema.SocialComment.Table,
		schema.SocialComment.ID,
	)

	comment := &Comment{}
	err := repository.pool.QueryRow(ctx, query, id).Scan(
		&comment.ID,
		&comment.ArticleID,
		&comment.AuthorID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "comment_repo_find_by_id")
	}

	return comment, nil
}

/*
ListByArticle returns one page of an article's comments plus the total.

Description: COUNT(*) OVER() delivers the page and the total in one query.
Ordering is newest-first with the id as a stable tie-break.
*/
func (repository *PostgresRepository) ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]*Comment, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s,
			COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC, %s ASC
		LIMIT $2 OFFSET $3`,
		schema.SocialComment.ID, schema.SocialComment.ArticleID, schema.SocialComment.AuthorID,
		schema.SocialComment.Body, schema.SocialComment.CreatedAt, schema.SocialComment.UpdatedAt,
		schema.SocialComment.Table,
		schema.SocialComment.ArticleID,
		schema.SocialComment.CreatedAt, schema.SocialComment.ID,
	)

	rows, err := repository.pool.Query(ctx, query, articleID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "comment_repo_list")
	}
	defer rows.Close()

	var comments []*Comment
	var totalCount int

	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.ArticleID,
			&comment.AuthorID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "comment_repo_list_scan")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "comment_repo_list_rows")
	}

	return comments, totalCount, nil
}

// Delete removes a comment row by id.
func (repository *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.SocialComment.Table, schema.SocialComment.ID)

	_, err := repository.pool.Exec(ctx, query, id)
	if err != nil {
		return dberr.Wrap(err, "comment_repo_delete")
	}

	return nil
}
