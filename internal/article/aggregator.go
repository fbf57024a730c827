// Copyright (c) 2026 Conduit. All rights reserved.

package article

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/conduithq/conduit/internal/platform/apperr"
	"github.com/conduithq/conduit/internal/profile"
	"github.com/conduithq/conduit/internal/user"
)

// Composer assembles viewer-relative article projections out of the three
// independent data sources: accounts, favorites, and the follow graph.
//
// # Concurrency
//
// Single-article composition fans the reads out through an errgroup: they
// touch disjoint tables, so there is no reason to run them serially. List
// composition instead batches each concern into one query to avoid N+1.
type Composer struct {
	authors   AuthorDirectory
	favorites FavoriteRepository
	follows   FollowChecker
}

// NewComposer constructs a [Composer] with its data sources.
func NewComposer(authors AuthorDirectory, favorites FavoriteRepository, follows FollowChecker) *Composer {
	return &Composer{authors: authors, favorites: favorites, follows: follows}
}

// authorProfile maps an account onto the viewer-relative public profile.
func authorProfile(account *user.User, following bool) *profile.Profile {
	return &profile.Profile{
		Username:  account.Username,
		Bio:       account.Bio,
		Image:     account.Image,
		Following: following,
	}
}

// tagsOrEmpty guarantees a non-nil slice so the JSON field is [] not null.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

/*
ComposeView assembles the full single-article projection for one viewer.

Description: Runs the author lookup, the favorites count, and (for
authenticated viewers) the favorited/following checks concurrently. Any
sub-query failure fails the whole composition — a partially hydrated
article would silently lie to the client.

Parameters:
  - ctx: context.Context
  - viewerID: string ("" for anonymous; flags stay false)
  - article: *Article

Returns:
  - *View: The composed projection
  - error: First failing sub-query error
*/
func (composer *Composer) ComposeView(ctx context.Context, viewerID string, article *Article) (*View, error) {
	var (
		account        *user.User
		favoritesCount int
		favorited      bool
		following      bool
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		account, err = composer.authors.FindByID(groupCtx, article.AuthorID)
		return err
	})

	group.Go(func() error {
		var err error
		favoritesCount, err = composer.favorites.Count(groupCtx, article.ID)
		return err
	})

	if viewerID != "" {
		group.Go(func() error {
			var err error
			favorited, err = composer.favorites.IsFavorited(groupCtx, viewerID, article.ID)
			return err
		})

		if viewerID != article.AuthorID {
			group.Go(func() error {
				var err error
				following, err = composer.follows.IsFollowing(groupCtx, viewerID, article.AuthorID)
				return err
			})
		}
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &View{
		Slug:           article.Slug,
		Title:          article.Title,
		Description:    article.Description,
		Body:           article.Body,
		TagList:        tagsOrEmpty(article.TagList),
		CreatedAt:      article.CreatedAt,
		UpdatedAt:      article.UpdatedAt,
		Favorited:      favorited,
		FavoritesCount: favoritesCount,
		Author:         authorProfile(account, following),
	}, nil
}

/*
ComposeList assembles list projections for a page of articles.

Description: Gathers the distinct author and article ids, then resolves
authors, favorite counts, the viewer's favorite edges, and the viewer's
follow edges as batch queries — a fixed number of round-trips no matter
the page size. The order of the input slice is preserved.
*/
func (composer *Composer) ComposeList(ctx context.Context, viewerID string, articles []*Article) ([]*ListItem, error) {
	if len(articles) == 0 {
		return []*ListItem{}, nil
	}

	// ── 1. Collect Batch Keys ─────────────────────────────────────────────

	articleIDs := make([]string, 0, len(articles))
	authorIDSet := make(map[string]struct{}, len(articles))
	for _, article := range articles {
		articleIDs = append(articleIDs, article.ID)
		authorIDSet[article.AuthorID] = struct{}{}
	}

	authorIDs := make([]string, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}

	// ── 2. Batched Resolution ─────────────────────────────────────────────

	var (
		accounts     map[string]*user.User
		counts       map[string]int
		favoritedSet map[string]bool
		followingSet map[string]bool
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		var err error
		accounts, err = composer.authors.FindByIDs(groupCtx, authorIDs)
		return err
	})

	group.Go(func() error {
		var err error
		counts, err = composer.favorites.CountSet(groupCtx, articleIDs)
		return err
	})

	if viewerID != "" {
		group.Go(func() error {
			var err error
			favoritedSet, err = composer.favorites.FavoritedSet(groupCtx, viewerID, articleIDs)
			return err
		})

		group.Go(func() error {
			var err error
			followingSet, err = composer.follows.FollowingSet(groupCtx, viewerID, authorIDs)
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	// ── 3. Assembly ───────────────────────────────────────────────────────

	items := make([]*ListItem, 0, len(articles))
	for _, article := range articles {
		account, ok := accounts[article.AuthorID]
		if !ok {
			// Author rows are never hard-deleted; a miss means corruption.
			return nil, apperr.NotFound("Author")
		}

		items = append(items, &ListItem{
			Slug:           article.Slug,
			Title:          article.Title,
			Description:    article.Description,
			TagList:        tagsOrEmpty(article.TagList),
			CreatedAt:      article.CreatedAt,
			UpdatedAt:      article.UpdatedAt,
			Favorited:      favoritedSet[article.ID],
			FavoritesCount: counts[article.ID],
			Author:         authorProfile(account, followingSet[article.AuthorID]),
		})
	}

	return items, nil
}
