// Copyright (c) 2026 Conduit. All rights reserved.

// Package user implements the account use cases for the Conduit platform.
//
// # Architecture
//
// Services in this package orchestrate domain entities and interact with
// repositories through interfaces. They are technology-agnostic and do not
// know about HTTP or SQL.
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/conduithq/conduit/internal/platform/apperr"
	"github.com/conduithq/conduit/internal/platform/constants"
	"github.com/conduithq/conduit/internal/platform/sec"
	"github.com/conduithq/conduit/pkg/pointer"
	"github.com/conduithq/conduit/pkg/uuidv7"
)

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - username: The username of the account.
	//   - email: The email of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an error if signing fails.
	GenerateAccessToken(userID, username, email string, timeToLive time.Duration) (string, error)
}

// Service implements account identity use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed carefully.
type Service struct {
	repository    Repository
	loginThrottle LoginThrottle
	tokenProvider TokenProvider
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	repository Repository,
	loginThrottle LoginThrottle,
	tokenProvider TokenProvider,
) *Service {
	return &Service{
		repository:    repository,
		loginThrottle: loginThrottle,
		tokenProvider: tokenProvider,
	}
}

// Session is an authenticated account paired with its freshly issued token.
type Session struct {
	Token string
	User  *User
}

// sessionFor signs a fresh access token for user and wraps both in a [Session].
func (service *Service) sessionFor(user *User) (*Session, error) {
	token, err := service.tokenProvider.GenerateAccessToken(user.ID, user.Username, user.Email, constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("user_service_token_generation_failed: %w", err)
	}

	return &Session{Token: token, User: user}, nil
}

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register validates, hashes, and persists a brand new account, then
// issues its first access token.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: The user-provided registration details.
//
// # Returns
//   - A [*Session] holding the created account and its token.
//   - Returns [apperr.Conflict] if email or username already exists.
//
// # Business Rules
//   - Emails must be unique.
//   - Usernames must be unique.
func (service *Service) Register(context context.Context, input RegisterInput) (*Session, error) {
	// ── 1. Uniqueness Checks ──────────────────────────────────────────────

	// Verify email uniqueness. Return a client-safe Conflict error.
	_, err := service.repository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict error.
	_, err = service.repository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// ── 2. Security ───────────────────────────────────────────────────────

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user_service_hash_failed: %w", err)
	}

	// ── 3. Entity Construction ────────────────────────────────────────────

	user := &User{
		ID:           uuidv7.New(), // Time-sortable ID to prevent PG index fragmentation.
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	// The unique indexes are the final arbiter: a concurrent registration
	// that slips past the pre-checks still surfaces as a Conflict here.
	if err := service.repository.Create(context, user); err != nil {
		return nil, err
	}

	// ── 5. Token Issuance ─────────────────────────────────────────────────

	return service.sessionFor(user)
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string // Throttle key; filled by the transport layer.
}

// Login validates account credentials and issues an access token.
//
// # Parameters
//   - context: Context for the database operation.
//   - input: Contains Email, plain-text Password, and the client IP.
//
// # Returns
//   - A [*Session] containing the token and account.
//   - Returns [apperr.RateLimited] when the per-IP attempt budget is spent.
//   - Returns [apperr.Unauthorized] if credentials do not match.
//
// # Flow
//  1. Charge the per-IP login throttle.
//  2. Lookup account by email.
//  3. Verify password hash using Bcrypt.
//  4. Generate the JWT access token.
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	// ── 1. Throttling ─────────────────────────────────────────────────────

	// Every attempt is charged, successful or not, so an attacker cannot
	// probe passwords for free between legitimate logins.
	allowed, err := service.loginThrottle.Allow(context, input.IPAddress)
	if err == nil && !allowed {
		return nil, apperr.RateLimited(int(constants.LoginThrottleWindow.Seconds()))
	}
	// A throttle backend outage fails open: login availability outranks
	// brute-force accounting for this endpoint.

	// ── 2. Fetch Account ──────────────────────────────────────────────────

	// Return generic unauthorized error to prevent email enumeration attacks.
	user, err := service.repository.FindByEmail(context, input.Email)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 3. Security Verification ──────────────────────────────────────────

	// Bcrypt comparison is constant-time, which blunts timing attacks.
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// ── 4. Token Issuance ─────────────────────────────────────────────────

	return service.sessionFor(user)
}

// Me returns the caller's account together with a fresh access token.
//
// Re-issuing on every call means clients that only persist the response
// body always hold a token with a full lifetime ahead of it.
func (service *Service) Me(context context.Context, userID string) (*Session, error) {
	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "User")
	}

	return service.sessionFor(user)
}

// UpdateInput is a partial update of the caller's own account.
// Nil fields are left untouched.
type UpdateInput struct {
	Username *string
	Email    *string
	Password *string
	Bio      *string
	Image    *string
}

// Update applies a partial update to the caller's account.
//
// # Returns
//   - A [*Session] with the updated account and a token minted against the
//     new identity (username/email live inside the JWT claims).
//   - Returns [apperr.Conflict] when the new username or email is taken.
//
// # Business Rules
//   - A changed email or username must remain unique.
//   - A new password is re-hashed; the old hash is discarded.
func (service *Service) Update(context context.Context, userID string, input UpdateInput) (*Session, error) {
	// ── 1. Fetch Current State ────────────────────────────────────────────

	user, err := service.repository.FindByID(context, userID)
	if err != nil {
		return nil, apperr.RenameNotFound(err, "User")
	}

	// ── 2. Uniqueness Checks (changed identifiers only) ───────────────────

	if input.Email != nil && *input.Email != user.Email {
		if _, err := service.repository.FindByEmail(context, *input.Email); err == nil {
			return nil, apperr.Conflict("Email is already registered")
		}
	}

	if input.Username != nil && *input.Username != user.Username {
		if _, err := service.repository.FindByUsername(context, *input.Username); err == nil {
			return nil, apperr.Conflict("Username is already taken")
		}
	}

	// ── 3. Apply Patch ────────────────────────────────────────────────────

	user.Username = pointer.Fallback(input.Username, user.Username)
	user.Email = pointer.Fallback(input.Email, user.Email)
	user.Bio = pointer.Fallback(input.Bio, user.Bio)
	user.Image = pointer.Fallback(input.Image, user.Image)

	if input.Password != nil {
		hashedPassword, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("user_service_hash_failed: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	// ── 4. Persistence ────────────────────────────────────────────────────

	if err := service.repository.Update(context, user); err != nil {
		return nil, err
	}

	return service.sessionFor(user)
}
