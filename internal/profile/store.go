// Copyright (c) 2026 Conduit. All rights reserved.

package profile

import (
	"context"

	"github.com/conduithq/conduit/internal/user"
)

// UserDirectory is the narrow account lookup surface this package needs.
// [user.Repository] satisfies it.
type UserDirectory interface {
	FindByUsername(ctx context.Context, username string) (*user.User, error)
}

// FollowRepository defines the persistence contract for the follow graph.
type FollowRepository interface {
	// Follow creates the follower → following edge. Creating an edge that
	// already exists is a no-op, not an error.
	Follow(ctx context.Context, followerID, followingID string) error

	// Unfollow removes the edge. Removing a missing edge is a no-op.
	Unfollow(ctx context.Context, followerID, followingID string) error

	// IsFollowing reports whether the follower → following edge exists.
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)

	// FolloweeIDs lists the ids of every account the follower follows.
	FolloweeIDs(ctx context.Context, followerID string) ([]string, error)

	// FollowingSet reports, for each id in targetIDs, whether the follower
	// follows it. One round-trip regardless of len(targetIDs).
	FollowingSet(ctx context.Context, followerID string, targetIDs []string) (map[string]bool, error)
}
