// Copyright (c) 2026 Conduit. All rights reserved.

package comment_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduithq/conduit/internal/article"
	"github.com/conduithq/conduit/internal/comment"
	"github.com/conduithq/conduit/internal/platform/apperr"
	"github.com/conduithq/conduit/internal/user"
)

// # In-Memory Fakes

type fakeComments struct {
	byID map[string]*comment.Comment
	seq  int
}

func newFakeComments() *fakeComments {
	return &fakeComments{byID: make(map[string]*comment.Comment)}
}

func (r *fakeComments) Create(_ context.Context, c *comment.Comment) error {
	r.seq++
	c.CreatedAt = time.Now().Add(time.Duration(r.seq) * time.Second)
	c.UpdatedAt = c.CreatedAt
	r.byID[c.ID] = c
	return nil
}

func (r *fakeComments) FindByID(_ context.Context, id string) (*comment.Comment, error) {
	if c, ok := r.byID[id]; ok {
		return c, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (r *fakeComments) ListByArticle(_ context.Context, articleID string, limit, offset int) ([]*comment.Comment, int, error) {
	var matched []*comment.Comment
	for _, c := range r.byID {
		if c.ArticleID == articleID {
			matched = append(matched, c)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeComments) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

type fakeArticles struct {
	bySlug map[string]*article.Article

	// err, when set, simulates a storage-level failure on lookups.
	err error
}

func (f *fakeArticles) FindBySlug(_ context.Context, slug string) (*article.Article, error) {
	if f.err != nil {
		return nil, f.err
	}
	if a, ok := f.bySlug[slug]; ok {
		return a, nil
	}
	return nil, apperr.NotFound("Article")
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

type fakeFollows struct {
	edges map[[2]string]bool
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

func fixtureService() (*comment.Service, *fakeComments, *fakeFollows) {
	comments := newFakeComments()
	articles := &fakeArticles{bySlug: map[string]*article.Article{
		"how-to-train-your-dragon-123": {ID: "a1", Slug: "how-to-train-your-dragon-123", AuthorID: "u-jacob"},
		"other-article-456":            {ID: "a2", Slug: "other-article-456", AuthorID: "u-jacob"},
	}}
	authors := &fakeAuthors{byID: map[string]*user.User{
		"u-jacob": {ID: "u-jacob", Username: "jacob", Bio: "cofounder"},
		"u-celeb": {ID: "u-celeb", Username: "celeb"},
	}}
	follows := &fakeFollows{edges: make(map[[2]string]bool)}

	return comment.NewService(comments, articles, authors, follows), comments, follows
}

/*
TestService_Create verifies posting and the unresolved-slug path.
*/
func TestService_Create(t *testing.T) {
	service, _, _ := fixtureService()
	ctx := context.Background()

	view, err := service.Create(ctx, "u-celeb", "how-to-train-your-dragon-123", "Great read!")
	require.NoError(t, err)

	assert.NotEmpty(t, view.ID)
	assert.Equal(t, "Great read!", view.Body)
	assert.Equal(t, "celeb", view.Author.Username)
	// The author never follows themselves.
	assert.False(t, view.Author.Following)

	t.Run("unknown_slug", func(t *testing.T) {
		_, err := service.Create(ctx, "u-celeb", "ghost", "anyone here?")
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})
}

/*
TestService_StoreFailure verifies that infrastructure failures from the
article finder keep their classification instead of surfacing as 404s.
*/
func TestService_StoreFailure(t *testing.T) {
	articles := &fakeArticles{err: apperr.Internal(errors.New("connection refused"))}
	follows := &fakeFollows{edges: make(map[[2]string]bool)}
	service := comment.NewService(newFakeComments(), articles, &fakeAuthors{}, follows)

	_, err := service.Create(context.Background(), "u-celeb", "any-slug", "hello")
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", apperr.As(err).Code)
}

/*
TestService_ListBySlug verifies ordering, pagination, and follow flags.
*/
func TestService_ListBySlug(t *testing.T) {
	service, _, follows := fixtureService()
	ctx := context.Background()

	for _, body := range []string{"first", "second", "third"} {
		_, err := service.Create(ctx, "u-jacob", "how-to-train-your-dragon-123", body)
		require.NoError(t, err)
	}
	follows.edges[[2]string{"u-celeb", "u-jacob"}] = true

	views, total, err := service.ListBySlug(ctx, "u-celeb", "how-to-train-your-dragon-123", 10, 0)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, 3, total)

	// Newest first.
	assert.Equal(t, "third", views[0].Body)
	assert.Equal(t, "first", views[2].Body)
	assert.True(t, views[0].Author.Following)

	t.Run("pagination", func(t *testing.T) {
		views, total, err := service.ListBySlug(ctx, "", "how-to-train-your-dragon-123", 2, 2)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, 3, total)
		assert.Equal(t, "first", views[0].Body)
		// Anonymous viewers never follow anyone.
		assert.False(t, views[0].Author.Following)
	})

	t.Run("empty_article", func(t *testing.T) {
		views, total, err := service.ListBySlug(ctx, "", "other-article-456", 10, 0)
		require.NoError(t, err)
		assert.NotNil(t, views)
		assert.Empty(t, views)
		assert.Zero(t, total)
	})
}

/*
TestService_Delete verifies author-only removal and pair matching.
*/
func TestService_Delete(t *testing.T) {
	service, comments, _ := fixtureService()
	ctx := context.Background()

	view, err := service.Create(ctx, "u-celeb", "how-to-train-your-dragon-123", "delete me")
	require.NoError(t, err)

	t.Run("forbidden_for_non_author", func(t *testing.T) {
		err := service.Delete(ctx, "u-jacob", "how-to-train-your-dragon-123", view.ID)
		require.Error(t, err)
		assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	})

	t.Run("mismatched_article_is_not_found", func(t *testing.T) {
		err := service.Delete(ctx, "u-celeb", "other-article-456", view.ID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	})

	t.Run("author_deletes", func(t *testing.T) {
		require.NoError(t, service.Delete(ctx, "u-celeb", "how-to-train-your-dragon-123", view.ID))
		_, err := comments.FindByID(ctx, view.ID)
		require.Error(t, err)
	})
}
