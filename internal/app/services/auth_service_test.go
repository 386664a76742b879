package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhle/curricula/internal/app/models"
	"github.com/minhle/curricula/internal/app/models/dto"
	"github.com/minhle/curricula/internal/pkg/apperrors"
	"github.com/minhle/curricula/internal/pkg/auth"
)

// fakeAuthUserStore serves a fixed set of users.
type fakeAuthUserStore struct {
	users          map[int64]*models.User
	lastLoginCalls []int64
}

func newFakeAuthUserStore(users ...*models.User) *fakeAuthUserStore {
	f := &fakeAuthUserStore{users: make(map[int64]*models.User)}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeAuthUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeAuthUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAuthUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username != nil && *u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeAuthUserStore) UpdateLastLogin(_ context.Context, id int64) error {
	f.lastLoginCalls = append(f.lastLoginCalls, id)
	return nil
}

// fakeTokenStore keeps refresh tokens in memory with their revocation
// state.
type fakeTokenStore struct {
	tokens  map[string]int64
	expiry  map[string]time.Time
	revoked map[string]bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{
		tokens:  make(map[string]int64),
		expiry:  make(map[string]time.Time),
		revoked: make(map[string]bool),
	}
}

func (f *fakeTokenStore) CreateToken(_ context.Context, token string, userID int64, expiryDate time.Time) error {
	f.tokens[token] = userID
	f.expiry[token] = expiryDate
	return nil
}

func (f *fakeTokenStore) GetTokenByValue(_ context.Context, token string) (int64, time.Time, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return 0, time.Time{}, apperrors.ErrTokenNotFound
	}
	if f.revoked[token] {
		return 0, time.Time{}, apperrors.ErrTokenRevoked
	}
	if time.Now().After(f.expiry[token]) {
		return 0, time.Time{}, apperrors.ErrTokenExpired
	}
	return userID, f.expiry[token], nil
}

func (f *fakeTokenStore) RevokeToken(_ context.Context, token string) error {
	if _, ok := f.tokens[token]; !ok {
		return apperrors.ErrTokenNotFound
	}
	f.revoked[token] = true
	return nil
}

func (f *fakeTokenStore) RevokeAllUserTokens(_ context.Context, userID int64) error {
	for token, id := range f.tokens {
		if id == userID {
			f.revoked[token] = true
		}
	}
	return nil
}

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "test",
	})
}

func activeUser(t *testing.T, id int64, username, password string) *models.User {
	t.Helper()
	hashed, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{
		ID:       id,
		Username: &username,
		Email:    username + "@school.edu.vn",
		Password: hashed,
		IsActive: true,
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid username and password issue a token pair", func(t *testing.T) {
		userStore := newFakeAuthUserStore(activeUser(t, 1, "jane.doe", "s3cret-pass1"))
		tokenStore := newFakeTokenStore()
		svc := NewAuthService(userStore, tokenStore, testJWTService(), zerolog.Nop())

		tokens, err := svc.Login(ctx, dto.LoginRequest{Username: "jane.doe", Password: "s3cret-pass1"})
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, "Bearer", tokens.TokenType)

		// The refresh token is persisted and the login recorded
		assert.Contains(t, tokenStore.tokens, tokens.RefreshToken)
		assert.Equal(t, []int64{1}, userStore.lastLoginCalls)
	})

	t.Run("login by email works too", func(t *testing.T) {
		userStore := newFakeAuthUserStore(activeUser(t, 1, "jane.doe", "s3cret-pass1"))
		svc := NewAuthService(userStore, newFakeTokenStore(), testJWTService(), zerolog.Nop())

		tokens, err := svc.Login(ctx, dto.LoginRequest{Email: "Jane.Doe@school.edu.vn", Password: "s3cret-pass1"})
		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
	})

	t.Run("wrong password is invalid credentials", func(t *testing.T) {
		userStore := newFakeAuthUserStore(activeUser(t, 1, "jane.doe", "s3cret-pass1"))
		svc := NewAuthService(userStore, newFakeTokenStore(), testJWTService(), zerolog.Nop())

		_, err := svc.Login(ctx, dto.LoginRequest{Username: "jane.doe", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user is invalid credentials, not a 404", func(t *testing.T) {
		svc := NewAuthService(newFakeAuthUserStore(), newFakeTokenStore(), testJWTService(), zerolog.Nop())

		_, err := svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "whatever1"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("inactive account cannot log in", func(t *testing.T) {
		user := activeUser(t, 1, "jane.doe", "s3cret-pass1")
		user.IsActive = false
		svc := NewAuthService(newFakeAuthUserStore(user), newFakeTokenStore(), testJWTService(), zerolog.Nop())

		_, err := svc.Login(ctx, dto.LoginRequest{Username: "jane.doe", Password: "s3cret-pass1"})
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})

	t.Run("missing identifier is a validation failure", func(t *testing.T) {
		svc := NewAuthService(newFakeAuthUserStore(), newFakeTokenStore(), testJWTService(), zerolog.Nop())

		_, err := svc.Login(ctx, dto.LoginRequest{Password: "whatever1"})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T) (AuthService, *fakeTokenStore, *dto.TokenResponse) {
		t.Helper()
		userStore := newFakeAuthUserStore(activeUser(t, 1, "jane.doe", "s3cret-pass1"))
		tokenStore := newFakeTokenStore()
		svc := NewAuthService(userStore, tokenStore, testJWTService(), zerolog.Nop())

		tokens, err := svc.Login(ctx, dto.LoginRequest{Username: "jane.doe", Password: "s3cret-pass1"})
		require.NoError(t, err)
		return svc, tokenStore, tokens
	}

	t.Run("rotation revokes the presented token", func(t *testing.T) {
		svc, tokenStore, tokens := login(t)

		rotated, err := svc.RefreshToken(ctx, tokens.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, tokens.RefreshToken, rotated.RefreshToken)
		assert.True(t, tokenStore.revoked[tokens.RefreshToken])

		// The old token cannot be replayed
		_, err = svc.RefreshToken(ctx, tokens.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		svc, _, _ := login(t)

		_, err := svc.RefreshToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrTokenNotFound)
	})

	t.Run("logout revokes the token", func(t *testing.T) {
		svc, tokenStore, tokens := login(t)

		require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))
		assert.True(t, tokenStore.revoked[tokens.RefreshToken])
	})
}
