// Copyright (c) 2026 Conduit. All rights reserved.

// Package user implements account identity for the Conduit platform:
// registration, login, and the authenticated user's own profile.
package user

import "time"

// User is the account entity stored in users.account.
//
// # Security
//
// PasswordHash must never be serialized. The json:"-" tag is a hard
// requirement, not a style choice.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Bio          string    `json:"bio"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
