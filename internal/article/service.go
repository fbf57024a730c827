// Copyright (c) 2026 Conduit. All rights reserved.

package article

import (
	"context"
	"time"

	"github.com/conduithq/conduit/internal/platform/apperr"
	"github.com/conduithq/conduit/pkg/pagination"
	"github.com/conduithq/conduit/pkg/pointer"
	"github.com/conduithq/conduit/pkg/slug"
	"github.com/conduithq/conduit/pkg/uuidv7"
)

// Service implements the article lifecycle and discovery use cases.
type Service struct {
	repository Repository
	favorites  FavoriteRepository
	follows    FollowChecker
	composer   *Composer

	// clock stamps slug suffixes; injectable so tests get stable slugs.
	clock func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
// A nil clock defaults to [time.Now].
func NewService(
	repository Repository,
	favorites FavoriteRepository,
	follows FollowChecker,
	composer *Composer,
	clock func() time.Time,
) *Service {
	if clock == nil {
		clock = time.Now
	}

	return &Service{
		repository: repository,
		favorites:  favorites,
		follows:    follows,
		composer:   composer,
		clock:      clock,
	}
}

// CreateInput holds the data required to publish a new article.
type CreateInput struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// Create publishes a new article under the given author.
//
// # Business Rules
//   - The slug is derived from the title plus a millisecond timestamp
//     suffix, so two articles may share a title without colliding.
//   - The tag set is persisted atomically with the article row.
func (service *Service) Create(context context.Context, authorID string, input CreateInput) (*View, error) {
	article := &Article{
		ID:          uuidv7.New(),
		Slug:        slug.WithSuffix(input.Title, service.clock()),
		Title:       input.Title,
		Description: input.Description,
		Body:        input.Body,
		AuthorID:    authorID,
		TagList:     input.TagList,
	}

	if err := service.repository.Create(context, article); err != nil {
		return nil, err
	}

	return service.composer.ComposeView(context, authorID, article)
}

// Get returns the composed article view for one viewer.
func (service *Service) Get(context context.Context, viewerID, articleSlug string) (*View, error) {
	article, err := service.repository.FindBySlug(context, articleSlug)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "Article")
	}

	return service.composer.ComposeView(context, viewerID, article)
}

// Update applies a partial update to an article.
//
// # Business Rules
//   - Author-only: the authorization check runs before anything else, so a
//     non-author with an empty patch still gets 403, not a silent no-op.
//   - The slug is regenerated only when the title actually changes.
//   - A non-nil TagList replaces the tag set wholesale.
func (service *Service) Update(context context.Context, callerID, articleSlug string, patch Patch) (*View, error) {
	// ── 1. Fetch & Authorize ──────────────────────────────────────────────

	article, err := service.repository.FindBySlug(context, articleSlug)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "Article")
	}

	if article.AuthorID != callerID {
		return nil, apperr.Forbidden("You can only edit your own articles")
	}

	// ── 2. Apply Patch ────────────────────────────────────────────────────

	if patch.Title != nil && *patch.Title != article.Title {
		article.Title = *patch.Title
		article.Slug = slug.WithSuffix(article.Title, service.clock())
	}
	article.Description = pointer.Fallback(patch.Description, article.Description)
	article.Body = pointer.Fallback(patch.Body, article.Body)

	replaceTagSet := patch.TagList != nil
	if replaceTagSet {
		article.TagList = *patch.TagList
	}

	// ── 3. Persistence & Composition ──────────────────────────────────────

	if err := service.repository.Update(context, article, replaceTagSet); err != nil {
		return nil, err
	}

	return service.composer.ComposeView(context, callerID, article)
}

// Delete removes an article and its dependent rows.
// Author-only; returns [apperr.Forbidden] for anyone else.
func (service *Service) Delete(context context.Context, callerID, articleSlug string) error {
	article, err := service.repository.FindBySlug(context, articleSlug)
	if err != nil {
		return apperr.RenameNotFound(err, "Article")
	}

	if article.AuthorID != callerID {
		return apperr.Forbidden("You can only delete your own articles")
	}

	return service.repository.Delete(context, article.ID)
}

// Favorite adds the viewer's favorite edge and returns the fresh view.
// Favoriting twice is idempotent.
func (service *Service) Favorite(context context.Context, viewerID, articleSlug string) (*View, error) {
	article, err := service.repository.FindBySlug(context, articleSlug)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "Article")
	}

	if err := service.favorites.Favorite(context, viewerID, article.ID); err != nil {
		return nil, err
	}

	return service.composer.ComposeView(context, viewerID, article)
}

// Unfavorite removes the viewer's favorite edge and returns the fresh view.
// Unfavoriting an article that was never favorited is idempotent.
func (service *Service) Unfavorite(context context.Context, viewerID, articleSlug string) (*View, error) {
	article, err := service.repository.FindBySlug(context, articleSlug)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "Article")
	}

	if err := service.favorites.Unfavorite(context, viewerID, article.ID); err != nil {
		return nil, err
	}

	return service.composer.ComposeView(context, viewerID, article)
}

// List returns one page of the global article listing plus the total count.
func (service *Service) List(context context.Context, viewerID string, filter Filter, page pagination.Params) ([]*ListItem, int, error) {
	articles, total, err := service.repository.List(context, filter, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}

	items, err := service.composer.ComposeList(context, viewerID, articles)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// Feed returns one page of articles authored by accounts the viewer
// follows, newest first. A viewer with zero followees gets an empty page
// without touching the article table.
func (service *Service) Feed(context context.Context, viewerID string, page pagination.Params) ([]*ListItem, int, error) {
	authorIDs, err := service.follows.FolloweeIDs(context, viewerID)
	if err != nil {
		return nil, 0, err
	}

	if len(authorIDs) == 0 {
		return []*ListItem{}, 0, nil
	}

	articles, total, err := service.repository.FeedByAuthors(context, authorIDs, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, err
	}

	items, err := service.composer.ComposeList(context, viewerID, articles)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
