// Copyright (c) 2026 Conduit. All rights reserved.

package user_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduithq/conduit/internal/platform/apperr"
	"github.com/conduithq/conduit/internal/platform/sec"
	"github.com/conduithq/conduit/internal/user"
)

// fakeRepository is an in-memory [user.Repository] for service tests.
type fakeRepository struct {
	byID map[string]*user.User

	// findErr, when set, simulates a storage-level failure on FindByID.
	findErr error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{byID: make(map[string]*user.User)}
}

func (r *fakeRepository) Create(_ context.Context, u *user.User) error {
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = u
	return nil
}

func (r *fakeRepository) FindByID(_ context.Context, id string) (*user.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	if u, ok := r.byID[id]; ok {
		return u, nil
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeRepository) FindByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeRepository) FindByUsername(_ context.Context, username string) (*user.User, error) {
	for _, u := range r.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (r *fakeRepository) Update(_ context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()
	r.byID[u.ID] = u
	return nil
}

// fakeThrottle counts attempts and flips to denied after the budget.
type fakeThrottle struct {
	attempts int
	budget   int
}

func (t *fakeThrottle) Allow(_ context.Context, _ string) (bool, error) {
	t.attempts++
	return t.attempts <= t.budget, nil
}

// fakeTokenProvider returns a deterministic token for assertions.
type fakeTokenProvider struct{}

func (fakeTokenProvider) GenerateAccessToken(userID, _, _ string, _ time.Duration) (string, error) {
	return "token-for-" + userID, nil
}

func newService(repo user.Repository, budget int) *user.Service {
	return user.NewService(repo, &fakeThrottle{budget: budget}, fakeTokenProvider{})
}

/*
TestService_Register verifies account creation, hashing, and token issuance.
*/
func TestService_Register(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, 100)

	session, err := service.Register(context.Background(), user.RegisterInput{
		Username: "jacob",
		Email:    "jake@jake.jake",
		Password: "jakejake123",
	})
	require.NoError(t, err)
	require.NotNil(t, session)

	// The plain-text password never survives registration.
	assert.NotEqual(t, "jakejake123", session.User.PasswordHash)
	assert.True(t, sec.CheckPasswordHash("jakejake123", session.User.PasswordHash))

	assert.Equal(t, "token-for-"+session.User.ID, session.Token)
	assert.NotEmpty(t, session.User.ID)
}

/*
TestService_Register_Duplicates verifies the uniqueness conflict paths.
*/
func TestService_Register_Duplicates(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, 100)

	_, err := service.Register(context.Background(), user.RegisterInput{
		Username: "jacob", Email: "jake@jake.jake", Password: "jakejake123",
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		input user.RegisterInput
	}{
		{"duplicate_email", user.RegisterInput{Username: "other", Email: "jake@jake.jake", Password: "password1"}},
		{"duplicate_username", user.RegisterInput{Username: "jacob", Email: "new@jake.jake", Password: "password1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tt.input)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "CONFLICT", ae.Code)
		})
	}
}

/*
TestService_Login verifies the credential verification paths.
*/
func TestService_Login(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, 100)

	_, err := service.Register(context.Background(), user.RegisterInput{
		Username: "jacob", Email: "jake@jake.jake", Password: "jakejake123",
	})
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		session, err := service.Login(context.Background(), user.LoginInput{
			Email: "jake@jake.jake", Password: "jakejake123", IPAddress: "10.0.0.1",
		})
		require.NoError(t, err)
		assert.Equal(t, "jacob", session.User.Username)
		assert.NotEmpty(t, session.Token)
	})

	t.Run("wrong_password", func(t *testing.T) {
		_, err := service.Login(context.Background(), user.LoginInput{
			Email: "jake@jake.jake", Password: "wrong-password", IPAddress: "10.0.0.1",
		})
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})

	t.Run("unknown_email", func(t *testing.T) {
		_, err := service.Login(context.Background(), user.LoginInput{
			Email: "nobody@jake.jake", Password: "jakejake123", IPAddress: "10.0.0.1",
		})
		require.Error(t, err)
		// Same generic message as wrong_password to block enumeration.
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	})
}

/*
TestService_Login_Throttled verifies the per-IP attempt budget.
*/
func TestService_Login_Throttled(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, 2)

	input := user.LoginInput{Email: "nobody@jake.jake", Password: "bad", IPAddress: "10.0.0.9"}

	// The first two attempts consume the budget (and fail on credentials).
	for i := 0; i < 2; i++ {
		_, err := service.Login(context.Background(), input)
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
	}

	// The third attempt is rejected before credentials are even checked.
	_, err := service.Login(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, "RATE_LIMITED", apperr.As(err).Code)
}

/*
TestService_Me_StoreFailure verifies that infrastructure failures from the
repository keep their classification instead of surfacing as missing users.
*/
func TestService_Me_StoreFailure(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, 100)

	repo.findErr = apperr.Internal(errors.New("connection refused"))

	_, err := service.Me(context.Background(), "u-jacob")
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", apperr.As(err).Code)
}

/*
TestService_Update verifies the partial-update semantics.
*/
func TestService_Update(t *testing.T) {
	repo := newFakeRepository()
	service := newService(repo, 100)

	registered, err := service.Register(context.Background(), user.RegisterInput{
		Username: "jacob", Email: "jake@jake.jake", Password: "jakejake123",
	})
	require.NoError(t, err)

	bio := "I work at statefarm"
	session, err := service.Update(context.Background(), registered.User.ID, user.UpdateInput{
		Bio: &bio,
	})
	require.NoError(t, err)

	// Only the provided field changes.
	assert.Equal(t, "I work at statefarm", session.User.Bio)
	assert.Equal(t, "jacob", session.User.Username)
	assert.Equal(t, "jake@jake.jake", session.User.Email)

	t.Run("password_rehash", func(t *testing.T) {
		newPassword := "brand-new-pass"
		session, err := service.Update(context.Background(), registered.User.ID, user.UpdateInput{
			Password: &newPassword,
		})
		require.NoError(t, err)
		assert.True(t, sec.CheckPasswordHash(newPassword, session.User.PasswordHash))
	})

	t.Run("conflict_on_taken_username", func(t *testing.T) {
		_, err := service.Register(context.Background(), user.RegisterInput{
			Username: "celeb", Email: "celeb@jake.jake", Password: "password1",
		})
		require.NoError(t, err)

		taken := "celeb"
		_, err = service.Update(context.Background(), registered.User.ID, user.UpdateInput{
			Username: &taken,
		})
		require.Error(t, err)
		assert.Equal(t, "CONFLICT", apperr.As(err).Code)
	})
}
