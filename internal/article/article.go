// Copyright (c) 2026 Conduit. All rights reserved.

// Package article implements the publication lifecycle for the Conduit
// platform: authoring, tagging, discovery, favorites, and the follow feed.
package article

import (
	"time"

	"github.com/conduithq/conduit/internal/profile"
)

// Article is the publication entity stored in content.article.
//
// TagList is hydrated from content.tag via the content.article_tag
// junction; it is never stored on the article row itself.
type Article struct {
	ID          string
	Slug        string
	Title       string
	Description string
	Body        string
	AuthorID    string
	TagList     []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// View is a fully composed article as seen by one viewer.
type View struct {
	Slug           string           `json:"slug"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Body           string           `json:"body"`
	TagList        []string         `json:"tagList"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Favorited      bool             `json:"favorited"`
	FavoritesCount int              `json:"favoritesCount"`
	Author         *profile.Profile `json:"author"`
}

// ListItem is the list projection of an article. The body is omitted:
// list pages only render the preview and the full text can be megabytes.
type ListItem struct {
	Slug           string           `json:"slug"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	TagList        []string         `json:"tagList"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Favorited      bool             `json:"favorited"`
	FavoritesCount int              `json:"favoritesCount"`
	Author         *profile.Profile `json:"author"`
}

// Filter narrows the global article listing. Zero values mean "no filter";
// populated fields are intersected.
type Filter struct {
	// Tag matches articles carrying the exact tag name.
	Tag string

	// Author is a case-insensitive substring match on the author username.
	Author string

	// FavoritedBy matches articles favorited by this exact username.
	FavoritedBy string
}

// Patch is a partial article update. Nil fields are left untouched.
// A non-nil TagList replaces the article's tag set wholesale.
type Patch struct {
	Title       *string
	Description *string
	Body        *string
	TagList     *[]string
}
