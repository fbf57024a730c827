// Copyright (c) 2026 Conduit. All rights reserved.

package profile

import (
	"context"

	"github.com/conduithq/conduit/internal/platform/apperr"
	"github.com/conduithq/conduit/internal/user"
)

// Service implements the profile and follow-graph use cases.
type Service struct {
	users   UserDirectory
	follows FollowRepository
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(users UserDirectory, follows FollowRepository) *Service {
	return &Service{users: users, follows: follows}
}

// projection maps an account onto its public profile for a given viewer.
func projection(account *user.User, following bool) *Profile {
	return &Profile{
		Username:  account.Username,
		Bio:       account.Bio,
		Image:     account.Image,
		Following: following,
	}
}

// Get returns the public profile of username as seen by viewerID.
//
// # Parameters
//   - context: Context for the database operation.
//   - viewerID: The caller's account id, or "" for anonymous viewers.
//   - username: The profile being looked up.
//
// # Returns
//   - The [*Profile] with viewer-relative Following.
//   - Returns [apperr.NotFound] if no such account exists.
func (service *Service) Get(context context.Context, viewerID, username string) (*Profile, error) {
	account, err := service.users.FindByUsername(context, username)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "Profile")
	}

	// Anonymous viewers never follow anyone.
	following := false
	if viewerID != "" && viewerID != account.ID {
		following, err = service.follows.IsFollowing(context, viewerID, account.ID)
		if err != nil {
			return nil, err
		}
	}

	return projection(account, following), nil
}

// Follow creates the viewer → username edge and returns the profile.
//
// # Business Rules
//   - Following yourself is a silent no-op: no edge is written and the
//     returned profile reports Following=false.
//   - Following an already-followed profile is idempotent.
func (service *Service) Follow(context context.Context, viewerID, username string) (*Profile, error) {
	account, err := service.users.FindByUsername(context, username)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "Profile")
	}

	// Self-follow short-circuit. The edge would be meaningless and would
	// make every user's feed contain their own articles.
	if account.ID == viewerID {
		return projection(account, false), nil
	}

	if err := service.follows.Follow(context, viewerID, account.ID); err != nil {
		return nil, err
	}

	return projection(account, true), nil
}

// Unfollow removes the viewer → username edge and returns the profile.
// Unfollowing a profile that was never followed is idempotent.
func (service *Service) Unfollow(context context.Context, viewerID, username string) (*Profile, error) {
	account, err := service.users.FindByUsername(context, username)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "Profile")
	}

	if account.ID != viewerID {
		if err := service.follows.Unfollow(context, viewerID, account.ID); err != nil {
			return nil, err
		}
	}

	return projection(account, false), nil
}
