// Copyright (c) 2026 Conduit. All rights reserved.

package comment

import (
	"context"

	"github.com/conduithq/conduit/internal/platform/apperr"
	"github.com/conduithq/conduit/internal/profile"
	"github.com/conduithq/conduit/internal/user"
	"github.com/conduithq/conduit/pkg/uuidv7"
)

// Service implements the comment use cases.
type Service struct {
	repository Repository
	articles   ArticleFinder
	authors    AuthorDirectory
	follows    FollowChecker
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	repository Repository,
	articles ArticleFinder,
	authors AuthorDirectory,
	follows FollowChecker,
) *Service {
	return &Service{
		repository: repository,
		articles:   articles,
		authors:    authors,
		follows:    follows,
	}
}

// view maps a comment and its author onto the wire projection.
func view(comment *Comment, account *user.User, following bool) *View {
	return &View{
		ID:        comment.ID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		Author: &profile.Profile{
			Username:  account.Username,
			Bio:       account.Bio,
			Image:     account.Image,
			Following: following,
		},
	}
}

// Create posts a new comment under the article identified by slug.
//
// # Returns
//   - The composed [*View]. The author is the caller, so Following is
//     always false in the returned projection.
//   - Returns [apperr.NotFound] if the slug resolves to nothing.
func (service *Service) Create(context context.Context, callerID, articleSlug, body string) (*View, error) {
	// ── 1. Resolve Article ────────────────────────────────────────────────

	article, err := service.articles.FindBySlug(context, articleSlug)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "Article")
	}

	// ── 2. Persistence ────────────────────────────────────────────────────

	comment := &Comment{
		ID:        uuidv7.New(),
		ArticleID: article.ID,
		AuthorID:  callerID,
		Body:      body,
	}

	if err := service.repository.Create(context, comment); err != nil {
		return nil, err
	}

	// ── 3. Composition ────────────────────────────────────────────────────

	account, err := service.authors.FindByID(context, callerID)
	if err != nil {
		return nil, err
	}

	return view(comment, account, false), nil
}

// ListBySlug returns one page of an article's comments for one viewer.
//
// Author profiles are resolved as a batch: one account query and one
// follow-set query regardless of page size.
func (service *Service) ListBySlug(context context.Context, viewerID, articleSlug string, limit, offset int) ([]*View, int, error) {
	// ── 1. Resolve Article ────────────────────────────────────────────────

	article, err := service.articles.FindBySlug(context, articleSlug)
	if err != nil {
		return nil, 0, apperr.RenameNotFound(err, "Article")
	}

	// ── 2. Fetch Page ─────────────────────────────────────────────────────

	comments, total, err := service.repository.ListByArticle(context, article.ID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if len(comments) == 0 {
		return []*View{}, total, nil
	}

	// ── 3. Batched Author Resolution ──────────────────────────────────────

	authorIDSet := make(map[string]struct{}, len(comments))
	for _, comment := range comments {
		authorIDSet[comment.AuthorID] = struct{}{}
	}
	authorIDs := make([]string, 0, len(authorIDSet))
	for id := range authorIDSet {
		authorIDs = append(authorIDs, id)
	}

	accounts, err := service.authors.FindByIDs(context, authorIDs)
	if err != nil {
		return nil, 0, err
	}

	followingSet := map[string]bool{}
	if viewerID != "" {
		followingSet, err = service.follows.FollowingSet(context, viewerID, authorIDs)
		if err != nil {
			return nil, 0, err
		}
	}

	// ── 4. Assembly ───────────────────────────────────────────────────────

	views := make([]*View, 0, len(comments))
	for _, comment := range comments {
		account, ok := accounts[comment.AuthorID]
		if !ok {
			return nil, 0, apperr.NotFound("Author")
		}
		views = append(views, view(comment, account, followingSet[comment.AuthorID]))
	}

	return views, total, nil
}

// Delete removes a comment. Author-only.
//
// # Business Rules
//   - The comment must belong to the article the slug resolves to;
//     a mismatched pair is treated as NotFound, not Forbidden.
//   - Only the comment's author may delete it.
func (service *Service) Delete(context context.Context, callerID, articleSlug, commentID string) error {
	article, err := service.articles.FindBySlug(context, articleSlug)
	if err != nil {
		return apperr.RenameNotFound(err, "Article")
	}

	comment, err := service.repository.FindByID(context, commentID)
	if err != nil {
		return apperr.RenameNotFound(err, "Comment")
	}

	if comment.ArticleID != article.ID {
		return apperr.NotFound("Comment")
	}

	if comment.AuthorID != callerID {
		return apperr.Forbidden("You can only delete your own comments")
	}

	return service.repository.Delete(context, comment.ID)
}
