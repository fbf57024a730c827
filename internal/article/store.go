// Copyright (c) 2026 Conduit. All rights reserved.

package article

import (
	"context"

	"github.com/conduithq/conduit/internal/profile"
	"github.com/conduithq/conduit/internal/user"
)

// Repository defines the persistence contract for articles.
type Repository interface {
	// Create persists a new article and its tag set atomically.
	Create(ctx context.Context, article *Article) error

	// FindBySlug retrieves an article (tags hydrated) by its unique slug.
	FindBySlug(ctx context.Context, slug string) (*Article, error)

	// List returns one page of articles matching the filter, newest first,
	// together with the total match count.
	List(ctx context.Context, filter Filter, limit, offset int) ([]*Article, int, error)

	// FeedByAuthors returns one page of articles written by any of the
	// given authors, newest first, with the total count.
	FeedByAuthors(ctx context.Context, authorIDs []string, limit, offset int) ([]*Article, int, error)

	// Update persists the mutable article fields; when the tag set changed
	// it is replaced atomically in the same transaction.
	Update(ctx context.Context, article *Article, replaceTags bool) error

	// Delete removes the article and all dependent rows (favorites,
	// comments, tag links) in one transaction.
	Delete(ctx context.Context, articleID string) error
}

// FavoriteRepository defines the persistence contract for favorite edges.
type FavoriteRepository interface {
	// Favorite creates the user → article edge; duplicates are a no-op.
	Favorite(ctx context.Context, userID, articleID string) error

	// Unfavorite removes the edge; a missing edge is a no-op.
	Unfavorite(ctx context.Context, userID, articleID string) error

	// IsFavorited reports whether the user → article edge exists.
	IsFavorited(ctx context.Context, userID, articleID string) (bool, error)

	// Count returns the number of users that favorited the article.
	Count(ctx context.Context, articleID string) (int, error)

	// CountSet returns favorite counts for a batch of article ids.
	CountSet(ctx context.Context, articleIDs []string) (map[string]int, error)

	// FavoritedSet reports, for each article id, whether the user
	// favorited it. One round-trip regardless of batch size.
	FavoritedSet(ctx context.Context, userID string, articleIDs []string) (map[string]bool, error)
}

// AuthorDirectory is the account lookup surface the aggregator needs.
// [user.PostgresRepository] satisfies it.
type AuthorDirectory interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*user.User, error)
}

// FollowChecker is the follow-graph surface the aggregator needs.
// [profile.PostgresFollowRepository] satisfies it.
type FollowChecker interface {
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	FollowingSet(ctx context.Context, followerID string, targetIDs []string) (map[string]bool, error)
	FolloweeIDs(ctx context.Context, followerID string) ([]string, error)
}

// Compile-time checks that the production stores satisfy the narrow
// surfaces declared above.
var (
	_ AuthorDirectory = (*user.PostgresRepository)(nil)
	_ FollowChecker   = (*profile.PostgresFollowRepository)(nil)
)
