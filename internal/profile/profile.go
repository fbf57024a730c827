// Copyright (c) 2026 Conduit. All rights reserved.

// Package profile implements the public author view and the follow graph.
//
// A profile is not its own table: it is the public projection of a
// users.account row, augmented with the viewer-relative Following flag.
package profile

// Profile is the public projection of an account as seen by a viewer.
type Profile struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
	Image    string `json:"image"`

	// Following reports whether the current viewer follows this account.
	// Always false for anonymous viewers and for the viewer's own profile.
	Following bool `json:"following"`
}
