// Copyright (c) 2026 Conduit. All rights reserved.

package article_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduithq/conduit/internal/article"
	"github.com/conduithq/conduit/internal/platform/apperr"
	"github.com/conduithq/conduit/internal/user"
	"github.com/conduithq/conduit/pkg/pagination"
)

// pageParams builds pagination inputs without going through a request.
func pageParams(limit, offset int) pagination.Params {
	return pagination.Params{Limit: limit, Offset: offset}
}

// # In-Memory Fakes (shared by the service and aggregator tests)

type fakeRepository struct {
	bySlug map[string]*article.Article

	// findErr, when set, simulates a storage-level failure on lookups.
	findErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{bySlug: make(map[string]*article.Article)}
}

func (r *fakeRepository) Create(_ context.Context, a *article.Article) error {
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.bySlug[a.Slug] = a
	return nil
}

func (r *fakeRepository) FindBySlug(_ context.Context, slug string) (*article.Article, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if a, ok := r.bySlug[slug]; ok {
		return a, nil
	}
	return nil, apperr.NotFound("Article")
}

// sorted returns all articles newest-first with id tie-break, like the
// production store.
func (r *fakeRepository) sorted() []*article.Article {
	all := make([]*article.Article, 0, len(r.bySlug))
	for _, a := range r.bySlug {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return all
}

func paginate(all []*article.Article, limit, offset int) []*article.Article {
	if offset >= len(all) {
		return nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end]
}

func (r *fakeRepository) List(_ context.Context, filter article.Filter, limit, offset int) ([]*article.Article, int, error) {
	var matched []*article.Article
	for _, a := range r.sorted() {
		if filter.Tag != "" && !contains(a.TagList, filter.Tag) {
			continue
		}
		matched = append(matched, a)
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (r *fakeRepository) FeedByAuthors(_ context.Context, authorIDs []string, limit, offset int) ([]*article.Article, int, error) {
	var matched []*article.Article
	for _, a := range r.sorted() {
		if contains(authorIDs, a.AuthorID) {
			matched = append(matched, a)
		}
	}
	return paginate(matched, limit, offset), len(matched), nil
}

func (r *fakeRepository) Update(_ context.Context, a *article.Article, _ bool) error {
	// Reindex in case the slug changed.
	for slug, existing := range r.bySlug {
		if existing.ID == a.ID {
			delete(r.bySlug, slug)
		}
	}
	a.UpdatedAt = time.Now()
	r.bySlug[a.Slug] = a
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, articleID string) error {
	for slug, existing := range r.bySlug {
		if existing.ID == articleID {
			delete(r.bySlug, slug)
		}
	}
	return nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}

type fakeFavorites struct {
	edges map[[2]string]bool
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{edges: make(map[[2]string]bool)}
}

func (f *fakeFavorites) Favorite(_ context.Context, userID, articleID string) error {
	f.edges[[2]string{userID, articleID}] = true
	return nil
}

func (f *fakeFavorites) Unfavorite(_ context.Context, userID, articleID string) error {
	delete(f.edges, [2]string{userID, articleID})
	return nil
}

func (f *fakeFavorites) IsFavorited(_ context.Context, userID, articleID string) (bool, error) {
	return f.edges[[2]string{userID, articleID}], nil
}

func (f *fakeFavorites) Count(_ context.Context, articleID string) (int, error) {
	count := 0
	for edge := range f.edges {
		if edge[1] == articleID {
			count++
		}
	}
	return count, nil
}

func (f *fakeFavorites) CountSet(ctx context.Context, articleIDs []string) (map[string]int, error) {
	counts := make(map[string]int)
	for _, id := range articleIDs {
		n, _ := f.Count(ctx, id)
		if n > 0 {
			counts[id] = n
		}
	}
	return counts, nil
}

func (f *fakeFavorites) FavoritedSet(_ context.Context, userID string, articleIDs []string) (map[string]bool, error) {
	set := make(map[string]bool)
	for _, id := range articleIDs {
		if f.edges[[2]string{userID, id}] {
			set[id] = true
		}
	}
	return set, nil
}

type fakeFollows struct {
	edges map[[2]string]bool
}

func newFakeFollows() *fakeFollows {
	return &fakeFollows{edges: make(map[[2]string]bool)}
}

func (f *fakeFollows) IsFollowing(_ context.Context, followerID, followingID string) (bool, error) {
	return f.edges[[2]string{followerID, followingID}], nil
}

func (f *fakeFollows) FollowingSet(_ context.Context, followerID string, targetIDs []string) (map[string]bool, error) {
	set := make(map[string]bool)
	for _, id := range targetIDs {
		if f.edges[[2]string{followerID, id}] {
			set[id] = true
		}
	}
	return set, nil
}

func (f *fakeFollows) FolloweeIDs(_ context.Context, followerID string) ([]string, error) {
	var ids []string
	for edge := range f.edges {
		if edge[0] == followerID {
			ids = append(ids, edge[1])
		}
	}
	return ids, nil
}

type fakeAuthors struct {
	byID map[string]*user.User
}

func (d *fakeAuthors) FindByID(_ context.Context, id string) (*user.User, error) {
	if u, ok := d.byID[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User")
}

func (d *fakeAuthors) FindByIDs(_ context.Context, ids []string) (map[string]*user.User, error) {
	out := make(map[string]*user.User)
	for _, id := range ids {
		if u, ok := d.byID[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

// fixture wires a service over fresh fakes with a fixed clock.
type fixture struct {
	service   *article.Service
	repo      *fakeRepository
	favorites *fakeFavorites
	follows   *fakeFollows
	authors   *fakeAuthors
	now       time.Time
}

func newFixture() *fixture {
	repo := newFakeRepository()
	favorites := newFakeFavorites()
	follows := newFakeFollows()
	authors := &fakeAuthors{byID: map[string]*user.User{
		"u-jacob": {ID: "u-jacob", Username: "jacob", Bio: "cofounder"},
		"u-celeb": {ID: "u-celeb", Username: "celeb"},
	}}
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	composer := article.NewComposer(authors, favorites, follows)
	service := article.NewService(repo, favorites, follows, composer, func() time.Time { return now })

	return &fixture{
		service:   service,
		repo:      repo,
		favorites: favorites,
		follows:   follows,
		authors:   authors,
		now:       now,
	}
}

/*
TestService_Create verifies publication, slug suffixing, and composition.
*/
func TestService_Create(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	view, err := fx.service.Create(ctx, "u-jacob", article.CreateInput{
		Title:       "How to train your dragon",
		Description: "Ever wonder how?",
		Body:        "You have to believe",
		TagList:     []string{"dragons", "training"},
	})
	require.NoError(t, err)

	// Slug carries the millisecond suffix from the injected clock.
	assert.Equal(t, "how-to-train-your-dragon-1773480413000", view.Slug)
	assert.Equal(t, []string{"dragons", "training"}, view.TagList)
	assert.Equal(t, "jacob", view.Author.Username)
	assert.False(t, view.Favorited)
	assert.Zero(t, view.FavoritesCount)

	t.Run("same_title_unique_slugs", func(t *testing.T) {
		fx.now = fx.now.Add(time.Second)
		// The fixture clock is captured by value; rebuild with the new time.
		later, err := article.NewService(fx.repo, fx.favorites, fx.follows,
			article.NewComposer(fx.authors, fx.favorites, fx.follows),
			func() time.Time { return fx.now },
		).Create(ctx, "u-jacob", article.CreateInput{
			Title: "How to train your dragon", Description: "d", Body: "b",
		})
		require.NoError(t, err)
		assert.NotEqual(t, view.Slug, later.Slug)
	})
}

/*
TestService_Update verifies author-only patching and slug regeneration.
*/
func TestService_Update(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.service.Create(ctx, "u-jacob", article.CreateInput{
		Title: "Original title", Description: "d", Body: "b", TagList: []string{"one"},
	})
	require.NoError(t, err)

	t.Run("forbidden_for_non_author", func(t *testing.T) {
		_, err := fx.service.Update(ctx, "u-celeb", created.Slug, article.Patch{})
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("body_patch_keeps_slug", func(t *testing.T) {
		body := "new body"
		view, err := fx.service.Update(ctx, "u-jacob", created.Slug, article.Patch{Body: &body})
		require.NoError(t, err)
		assert.Equal(t, created.Slug, view.Slug)
		assert.Equal(t, "new body", view.Body)
	})

	t.Run("title_change_regenerates_slug", func(t *testing.T) {
		title := "Brand new title"
		view, err := fx.service.Update(ctx, "u-jacob", created.Slug, article.Patch{Title: &title})
		require.NoError(t, err)
		assert.NotEqual(t, created.Slug, view.Slug)
		assert.Contains(t, view.Slug, "brand-new-title-")
	})

	t.Run("tag_replace", func(t *testing.T) {
		tags := []string{"two", "three"}
		view, err := fx.service.Update(ctx, "u-jacob", "brand-new-title-1773480413000", article.Patch{TagList: &tags})
		require.NoError(t, err)
		assert.Equal(t, []string{"two", "three"}, view.TagList)
	})

	t.Run("unknown_slug", func(t *testing.T) {
		_, err := fx.service.Update(ctx, "u-jacob", "ghost", article.Patch{})
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_Delete verifies author-only removal.
*/
func TestService_Delete(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.service.Create(ctx, "u-jacob", article.CreateInput{
		Title: "Doomed", Description: "d", Body: "b",
	})
	require.NoError(t, err)

	err = fx.service.Delete(ctx, "u-celeb", created.Slug)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	require.NoError(t, fx.service.Delete(ctx, "u-jacob", created.Slug))

	_, err = fx.service.Get(ctx, "", created.Slug)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

/*
TestService_Favorite verifies edge creation, counting, and idempotency.
*/
func TestService_Favorite(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	created, err := fx.service.Create(ctx, "u-jacob", article.CreateInput{
		Title: "Popular", Description: "d", Body: "b",
	})
	require.NoError(t, err)

	view, err := fx.service.Favorite(ctx, "u-celeb", created.Slug)
	require.NoError(t, err)
	assert.True(t, view.Favorited)
	assert.Equal(t, 1, view.FavoritesCount)

	// Favoriting again changes nothing.
	view, err = fx.service.Favorite(ctx, "u-celeb", created.Slug)
	require.NoError(t, err)
	assert.Equal(t, 1, view.FavoritesCount)

	view, err = fx.service.Unfavorite(ctx, "u-celeb", created.Slug)
	require.NoError(t, err)
	assert.False(t, view.Favorited)
	assert.Zero(t, view.FavoritesCount)

	// Unfavoriting again is a no-op, not an error.
	_, err = fx.service.Unfavorite(ctx, "u-celeb", created.Slug)
	require.NoError(t, err)
}

/*
TestService_List verifies listing pagination, including the total count on
pages past the last matching row.
*/
func TestService_List(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	for _, title := range []string{"First post", "Second post", "Third post"} {
		_, err := fx.service.Create(ctx, "u-jacob", article.CreateInput{
			Title: title, Description: "d", Body: "b",
		})
		require.NoError(t, err)
	}

	items, total, err := fx.service.List(ctx, "", article.Filter{}, pageParams(2, 0))
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, total)

	t.Run("offset_past_last_row_keeps_total", func(t *testing.T) {
		items, total, err := fx.service.List(ctx, "", article.Filter{}, pageParams(20, 1000))
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Equal(t, 3, total)
	})
}

/*
TestService_StoreFailure verifies that infrastructure failures from the
store keep their classification instead of surfacing as missing articles.
*/
func TestService_StoreFailure(t *testing.T) {
	fx := newFixture()
	fx.repo.findErr = apperr.Internal(errors.New("connection refused"))

	_, err := fx.service.Get(context.Background(), "", "any-slug")
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", apperr.As(err).Code)
}

/*
TestService_Feed verifies the followee feed, including the zero-followee
short-circuit.
*/
func TestService_Feed(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	_, err := fx.service.Create(ctx, "u-jacob", article.CreateInput{
		Title: "From jacob", Description: "d", Body: "b",
	})
	require.NoError(t, err)

	page := pageParams(20, 0)

	t.Run("no_followees_empty_feed", func(t *testing.T) {
		items, total, err := fx.service.Feed(ctx, "u-celeb", page)
		require.NoError(t, err)
		assert.Empty(t, items)
		assert.Zero(t, total)
	})

	t.Run("followee_articles_appear", func(t *testing.T) {
		fx.follows.edges[[2]string{"u-celeb", "u-jacob"}] = true

		items, total, err := fx.service.Feed(ctx, "u-celeb", page)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, 1, total)
		assert.Equal(t, "From jacob", items[0].Title)
		assert.True(t, items[0].Author.Following)
	})
}
