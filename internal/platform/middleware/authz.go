// Copyright (c) 2026 Conduit. All rights reserved.

// Identity gate for the Conduit API.
//
// # Architecture
//
// Two cooperating middlewares implement the two authentication modes:
//
//   - [Authenticate] (optional/detect): anonymous requests pass through,
//     valid credentials are verified and injected, malformed credentials
//     are rejected — never silently downgraded to anonymous.
//   - [RequireAuth] (mandatory): blocks any request whose context carries
//     no verified identity.
package middleware

import (
	"net/http"
	"strings"

	"github.com/conduithq/conduit/internal/platform/apperr"
	"github.com/conduithq/conduit/internal/platform/ctxutil"
	"github.com/conduithq/conduit/internal/platform/respond"
	"github.com/conduithq/conduit/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the token
// service implementation, allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// ExtractToken pulls the credential out of the Authorization header.
//
// Recognized scheme prefixes are "Bearer", "Token", and "JWT", compared
// case-insensitively. Any other scheme — or a missing token segment — counts
// as no credential at all and returns "".
func ExtractToken(request *http.Request) string {
	raw := strings.TrimSpace(request.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}

	parts := strings.Fields(raw)
	if len(parts) < 2 {
		return ""
	}

	switch strings.ToLower(parts[0]) {
	case "bearer", "token", "jwt":
		return strings.Join(parts[1:], " ")
	default:
		return ""
	}
}

// Authenticate extracts and verifies the credential from the Authorization header.
//
// # Flow
//  1. Extract the token via [ExtractToken].
//  2. If absent, request proceeds as anonymous.
//  3. If present, verify via [TokenVerifier]; an invalid or expired token is
//     always a 401 — optional-auth routes must not mask a bad credential.
//  4. Inject [*sec.AuthClaims] into the request context for downstream use.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Anonymous Access ───────────────────────────────────────────
			tokenStr := ExtractToken(request)
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*sec.AuthClaims] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetAuthUser(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
