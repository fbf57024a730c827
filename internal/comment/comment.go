// Copyright (c) 2026 Conduit. All rights reserved.

// Package comment implements threaded discussion on articles: create,
// list, and author-only delete. Comments have no edit operation.
package comment

import (
	"time"

	"github.com/conduithq/conduit/internal/profile"
)

// Comment is the discussion entity stored in social.comment.
type Comment struct {
	ID        string
	ArticleID string
	AuthorID  string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// View is a composed comment as seen by one viewer.
type View struct {
	ID        string           `json:"id"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Author    *profile.Profile `json:"author"`
}
