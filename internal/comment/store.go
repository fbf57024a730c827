// Copyright (c) 2026 Conduit. All rights reserved.

package comment

import (
	"context"

	"github.com/conduithq/conduit/internal/article"
	"github.com/conduithq/conduit/internal/user"
)

// Repository defines the persistence contract for comments.
type Repository interface {
	// Create persists a new comment.
	Create(ctx context.Context, comment *Comment) error

	// FindByID retrieves a comment by its UUID primary key.
	FindByID(ctx context.Context, id string) (*Comment, error)

	// ListByArticle returns one page of an article's comments, newest
	// first, together with the total count.
	ListByArticle(ctx context.Context, articleID string, limit, offset int) ([]*Comment, int, error)

	// Delete removes a comment by id.
	Delete(ctx context.Context, id string) error
}

// ArticleFinder resolves slugs to articles. [article.PostgresRepository]
// satisfies it.
type ArticleFinder interface {
	FindBySlug(ctx context.Context, slug string) (*article.Article, error)
}

// AuthorDirectory is the account lookup surface comment composition needs.
// [user.PostgresRepository] satisfies it.
type AuthorDirectory interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*user.User, error)
}

// FollowChecker resolves viewer → author follow state for comment authors.
// [profile.PostgresFollowRepository] satisfies it.
type FollowChecker interface {
	FollowingSet(ctx context.Context, followerID string, targetIDs []string) (map[string]bool, error)
}

var _ ArticleFinder = (*article.PostgresRepository)(nil)
