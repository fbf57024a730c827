// Copyright (c) 2026 Conduit. All rights reserved.

/*
Package article (Postgres) implements the storage layer for publications.

# Schema Table Mapping
  - content.article: Core publication rows.
  - content.tag: Lazily created, never deleted tag vocabulary.
  - content.article_tag: Many-to-many article ↔ tag junction.

# Error Mapping

Storage-specific errors are mapped to domain-friendly [apperr.AppError]
types via [dberr.Wrap] so callers never see pgx internals.
*/
package article

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/conduithq/conduit/internal/platform/database/schema"
	"github.com/conduithq/conduit/internal/platform/dberr"
	"github.com/conduithq/conduit/pkg/uuidv7"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the production article store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// articleColumns is the canonical hydrating projection: every article row
// is joined with its aggregated tag names in the same round-trip.
const articleColumns = `
		a.id, a.slug, a.title, a.description, a.body, a.authorid,
		a.createdat, a.updatedat,
		COALESCE((
			SELECT array_agg(t.name ORDER BY t.name)
			FROM content.tag t
			JOIN content.article_tag at ON t.id = at.tagid
			WHERE at.articleid = a.id
		), '{}') AS tags`

const articleSelect = `
	SELECT` + articleColumns + `
	FROM content.article a`

// articlePageSelect extends the projection with the windowed total so a
// page and its count arrive in one round-trip.
const articlePageSelect = `
	SELECT` + articleColumns + `,
		COUNT(*) OVER() AS total_count
	FROM content.article a`

// scanArticle scans one row of the canonical projection.
func scanArticle(rows pgx.Row) (*Article, error) {
	article := &Article{}
	err := rows.Scan(
		&article.ID,
		&article.Slug,
		&article.Title,
		&article.Description,
		&article.Body,
		&article.AuthorID,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.TagList,
	)
	if err != nil {
		return nil, err
	}
	return article, nil
}

/*
Create persists a new article together with its tag set in one transaction.

Description: Tags are lazily created — unknown names are inserted into
content.tag first (ON CONFLICT DO NOTHING keeps concurrent creates quiet),
then the junction rows are batch-inserted.

Parameters:
  - ctx: context.Context
  - article: *Article (CreatedAt/UpdatedAt stamped in place)

Returns:
  - error: apperr.Conflict on duplicate slug, or execution failures
*/
func (repository *PostgresRepository) Create(ctx context.Context, article *Article) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "article_repo_create_begin")
	}
	defer transaction.Rollback(ctx)

	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.ContentArticle.Table,
		schema.ContentArticle.ID, schema.ContentArticle.Slug, schema.ContentArticle.Title,
		schema.ContentArticle.Description, schema.ContentArticle.Body, schema.ContentArticle.AuthorID,
		schema.ContentArticle.CreatedAt, schema.ContentArticle.UpdatedAt,
	)

	now := time.Now()
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now

	_, err = transaction.Exec(ctx, query,
		article.ID,
		article.Slug,
		article.Title,
		article.Description,
		article.Body,
		article.AuthorID,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "article_repo_create")
	}

	if err := replaceTags(ctx, transaction, article.ID, article.TagList); err != nil {
		return err
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "article_repo_create_commit")
	}

	return nil
}

// FindBySlug retrieves one article, tags hydrated, by its unique slug.
func (repository *PostgresRepository) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	query := articleSelect + `
	WHERE a.slug = $1`

	article, err := scanArticle(repository.pool.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "article_repo_find_by_slug")
	}

	return article, nil
}

/*
List returns a filtered, paginated slice of articles plus the total count.

Description: Uses COUNT(*) OVER() so the page and the total arrive in one
query, and sub-selects for the relational filters:
  - Tag: articles carrying the exact tag name.
  - Author: case-insensitive substring match on the author's username.
  - FavoritedBy: articles favorited by the exact username.

Populated filters are intersected. Ordering is newest-first with the id as
a stable tie-break.
*/
func (repository *PostgresRepository) List(ctx context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	pageQuery, countQuery, args := buildListQuery(filter)
	args = append(args, limit, offset)

	return repository.queryPage(ctx, pageQuery, countQuery, args, "article_repo_list")
}

// buildListQuery renders the filtered page query, the count query sharing
// the same WHERE clause, and the bound filter arguments. The page query
// expects limit and offset appended as the final two arguments.
func buildListQuery(filter Filter) (pageQuery, countQuery string, args []any) {
	var whereBuilder strings.Builder
	argID := 1

	whereBuilder.WriteString(`
	WHERE TRUE`)

	// Tag Filtering (exact tag name via the junction)
	if filter.Tag != "" {
		whereBuilder.WriteString(fmt.Sprintf(` AND EXISTS (
			SELECT 1 FROM content.article_tag at
			JOIN content.tag t ON t.id = at.tagid
			WHERE at.articleid = a.id AND t.name = $%d)`, argID))
		args = append(args, filter.Tag)
		argID++
	}

	// Author Filtering (substring, case-insensitive)
	if filter.Author != "" {
		whereBuilder.WriteString(fmt.Sprintf(` AND a.authorid IN (
			SELECT u.id FROM users.account u
			WHERE u.username ILIKE '%%' || $%d || '%%')`, argID))
		args = append(args, escapeLike(filter.Author))
		argID++
	}

	// Favorited-By Filtering (exact username)
	if filter.FavoritedBy != "" {
		whereBuilder.WriteString(fmt.Sprintf(` AND a.id IN (
			SELECT f.articleid FROM social.favorite f
			JOIN users.account u ON u.id = f.userid
			WHERE u.username = $%d)`, argID))
		args = append(args, filter.FavoritedBy)
		argID++
	}

	where := whereBuilder.String()

	pageQuery = articlePageSelect + where +
		" ORDER BY a.createdat DESC, a.id ASC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argID, argID+1)
	countQuery = "SELECT COUNT(*) FROM content.article a" + where

	return pageQuery, countQuery, args
}

// likeEscaper neutralizes LIKE pattern metacharacters in user input, so
// searching for "%" matches a literal percent sign instead of every row.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// FeedByAuthors returns one page of articles written by the given authors,
// newest first, with the total count. An empty author set yields an empty
// page without touching the database.
func (repository *PostgresRepository) FeedByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]*Article, int, error) {
	if len(authorIDs) == 0 {
		return nil, 0, nil
	}

	query := articlePageSelect + `
	WHERE a.authorid = ANY($1)
	ORDER BY a.createdat DESC, a.id ASC
	LIMIT $2 OFFSET $3`

	countQuery := `SELECT COUNT(*) FROM content.article a WHERE a.authorid = ANY($1)`

	return repository.queryPage(ctx, query, countQuery, []any{authorIDs, limit, offset}, "article_repo_feed")
}

// queryPage executes a windowed page query and scans rows plus total count.
// The final two args must be limit and offset; countQuery binds the same
// filter arguments without them.
func (repository *PostgresRepository) queryPage(ctx context.Context, query, countQuery string, args []any, action string) ([]*Article, int, error) {
	rows, err := repository.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, action)
	}
	defer rows.Close()

	var articles []*Article
	var totalCount int

	for rows.Next() {
		article := &Article{}
		err := rows.Scan(
			&article.ID,
			&article.Slug,
			&article.Title,
			&article.Description,
			&article.Body,
			&article.AuthorID,
			&article.CreatedAt,
			&article.UpdatedAt,
			&article.TagList,
			&totalCount,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, action+"_scan")
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, action+"_rows")
	}

	// An offset at or past the last matching row returns zero rows, so the
	// windowed total is never scanned. Recount with the same filters.
	if len(articles) == 0 {
		filterArgs := args[:len(args)-2]
		if err := repository.pool.QueryRow(ctx, countQuery, filterArgs...).Scan(&totalCount); err != nil {
			return nil, 0, dberr.Wrap(err, action+"_count")
		}
	}

	return articles, totalCount, nil
}

/*
Update persists the mutable article fields and, when requested, replaces
the tag set in the same transaction.

Parameters:
  - ctx: context.Context
  - article: *Article (UpdatedAt stamped in place)
  - replaceTags: bool (true when the caller supplied a new tag set)
*/
func (repository *PostgresRepository) Update(ctx context.Context, article *Article, replaceTagSet bool) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "article_repo_update_begin")
	}
	defer transaction.Rollback(ctx)

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6
		WHERE %s = $1`,
		schema.ContentArticle.Table,
		schema.ContentArticle.Slug, schema.ContentArticle.Title, schema.ContentArticle.Description,
		schema.ContentArticle.Body, schema.ContentArticle.UpdatedAt,
		schema.ContentArticle.ID,
	)

	article.UpdatedAt = time.Now()
	_, err = transaction.Exec(ctx, query,
		article.ID,
		article.Slug,
		article.Title,
		article.Description,
		article.Body,
		article.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "article_repo_update")
	}

	if replaceTagSet {
		if err := replaceTags(ctx, transaction, article.ID, article.TagList); err != nil {
			return err
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "article_repo_update_commit")
	}

	return nil
}

/*
Delete removes an article and every dependent row in one transaction.

Description: Favorites, comments, and tag links go first so no foreign key
is ever left dangling; the tag vocabulary itself is never garbage-collected.
*/
func (repository *PostgresRepository) Delete(ctx context.Context, articleID string) error {
	transaction, err := repository.pool.Begin(ctx)
	if err != nil {
		return dberr.Wrap(err, "article_repo_delete_begin")
	}
	defer transaction.Rollback(ctx)

	cascade := []string{
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			schema.SocialFavorite.Table, schema.SocialFavorite.ArticleID),
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			schema.SocialComment.Table, schema.SocialComment.ArticleID),
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			schema.ContentArticleTag.Table, schema.ContentArticleTag.ArticleID),
		fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
			schema.ContentArticle.Table, schema.ContentArticle.ID),
	}

	for _, statement := range cascade {
		if _, err := transaction.Exec(ctx, statement, articleID); err != nil {
			return dberr.Wrap(err, "article_repo_delete_cascade")
		}
	}

	if err := transaction.Commit(ctx); err != nil {
		return dberr.Wrap(err, "article_repo_delete_commit")
	}

	return nil
}

/*
replaceTags synchronizes the article ↔ tag junction inside a transaction.

Description: Implements a "Clear and Insert" strategy. Existing links are
flushed, missing tag names are lazily inserted into the vocabulary, and the
fresh links are queued through one [pgx.Batch] to bound network round-trips.
*/
func replaceTags(ctx context.Context, transaction pgx.Tx, articleID string, tags []string) error {
	// Record Deletion Phase
	clearQuery := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.ContentArticleTag.Table, schema.ContentArticleTag.ArticleID)
	if _, err := transaction.Exec(ctx, clearQuery, articleID); err != nil {
		return dberr.Wrap(err, "article_repo_tags_clear")
	}

	if len(tags) == 0 {
		return nil
	}

	// Vocabulary Upsert Phase
	insertTag := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s)
		VALUES ($1, $2, $3)
		ON CONFLICT (%s) DO NOTHING`,
		schema.ContentTag.Table,
		schema.ContentTag.ID, schema.ContentTag.Name, schema.ContentTag.CreatedAt,
		schema.ContentTag.Name,
	)

	upserts := &pgx.Batch{}
	now := time.Now()
	for _, name := range tags {
		upserts.Queue(insertTag, uuidv7.New(), name, now)
	}
	if err := transaction.SendBatch(ctx, upserts).Close(); err != nil {
		return dberr.Wrap(err, "article_repo_tags_upsert")
	}

	// Link Insertion Phase
	linkQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s)
		SELECT $1, %s FROM %s WHERE %s = $2
		ON CONFLICT DO NOTHING`,
		schema.ContentArticleTag.Table,
		schema.ContentArticleTag.ArticleID, schema.ContentArticleTag.TagID,
		schema.ContentTag.ID, schema.ContentTag.Table, schema.ContentTag.Name,
	)

	links := &pgx.Batch{}
	for _, name := range tags {
		links.Queue(linkQuery, articleID, name)
	}
	if err := transaction.SendBatch(ctx, links).Close(); err != nil {
		return dberr.Wrap(err, "article_repo_tags_link")
	}

	return nil
}
