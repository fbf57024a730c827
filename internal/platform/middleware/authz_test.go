// Copyright (c) 2026 Conduit. All rights reserved.

package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduithq/conduit/internal/platform/ctxutil"
	"github.com/conduithq/conduit/internal/platform/middleware"
	"github.com/conduithq/conduit/internal/platform/sec"
)

// fakeVerifier accepts exactly one token string.
type fakeVerifier struct {
	valid  string
	claims *sec.AuthClaims
}

func (v *fakeVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr == v.valid {
		return v.claims, nil
	}
	return nil, errors.New("token is malformed")
}

/*
TestExtractToken verifies recognized Authorization schemes and rejects the rest.
*/
func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"bearer_scheme", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"token_scheme", "Token abc.def.ghi", "abc.def.ghi"},
		{"jwt_scheme", "JWT abc.def.ghi", "abc.def.ghi"},
		{"case_insensitive", "bEaReR abc.def.ghi", "abc.def.ghi"},
		{"unknown_scheme", "Basic dXNlcjpwYXNz", ""},
		{"missing_token_segment", "Bearer", ""},
		{"empty_header", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, middleware.ExtractToken(request))
		})
	}
}

/*
TestAuthenticate verifies the three verification outcomes: anonymous
pass-through, verified identity injection, and hard rejection of bad tokens.
*/
func TestAuthenticate(t *testing.T) {
	verifier := &fakeVerifier{
		valid:  "good-token",
		claims: &sec.AuthClaims{UserID: "user-123", Username: "jacob"},
	}

	var seen *sec.AuthClaims
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetAuthUser(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.Authenticate(verifier)(inner)

	t.Run("anonymous_passes_through", func(t *testing.T) {
		seen = nil
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Nil(t, seen)
	})

	t.Run("valid_token_injects_claims", func(t *testing.T) {
		seen = nil
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Token good-token")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		require.NotNil(t, seen)
		assert.Equal(t, "user-123", seen.UserID)
	})

	t.Run("invalid_token_is_rejected", func(t *testing.T) {
		seen = nil
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer forged-token")

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)

		// Never downgraded to anonymous.
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Nil(t, seen)
	})
}

/*
TestRequireAuth verifies the mandatory gate behind Authenticate.
*/
func TestRequireAuth(t *testing.T) {
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.RequireAuth(inner)

	t.Run("anonymous_is_blocked", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_proceeds", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "user-123"})

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request.WithContext(ctx))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}
