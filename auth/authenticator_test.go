package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-users-api/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// testConfig implements auth.Config
type testConfig struct{}

func (testConfig) GetSigningKey() string      { return "test-signing-key" }
func (testConfig) GetTokenTTL() time.Duration { return 5 * time.Minute }
func (testConfig) GetIssuer() string          { return "test-issuer" }
func (testConfig) GetAudience() []string      { return []string{"test-audience"} }
func (testConfig) GetContextKey() string      { return "user" }
func (testConfig) GetAuthScheme() string      { return "Bearer" }

func newTestAuther(users auth.Users) *auth.Auther {
	return auth.NewAuthenticator(users, testConfig{}).WithLogger(NoopLogger{})
}

func TestAuther_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active user and issues a token", func(t *testing.T) {
		users := &MockUsers{}
		users.On("Create", ctx, mock.MatchedBy(func(u *auth.User) bool {
			return u.Email == "new@test.com" && u.IsActive && u.PasswordHash != "" && u.PasswordHash != "password123!"
		})).Return(&auth.User{ID: 1, Email: "new@test.com", IsActive: true}, nil)

		user, token, err := newTestAuther(users).Register(ctx, "new@test.com", "password123!")

		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.True(t, user.IsActive)
		assert.NotEmpty(t, token)
		users.AssertExpectations(t)
	})

	t.Run("requires an email", func(t *testing.T) {
		users := &MockUsers{}

		_, _, err := newTestAuther(users).Register(ctx, "", "password123!")

		assert.Error(t, err)
		assert.True(t, auth.HasTextCode(err, "EMAIL_REQUIRED"))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("requires a password", func(t *testing.T) {
		users := &MockUsers{}

		_, _, err := newTestAuther(users).Register(ctx, "new@test.com", "")

		assert.Error(t, err)
		assert.True(t, auth.HasTextCode(err, "PASSWORD_REQUIRED"))
	})

	t.Run("rejects short passwords", func(t *testing.T) {
		users := &MockUsers{}

		_, _, err := newTestAuther(users).Register(ctx, "new@test.com", "short")

		assert.Error(t, err)
		assert.True(t, auth.HasTextCode(err, "PASSWORD_TOO_SHORT"))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("propagates duplicate email conflict", func(t *testing.T) {
		users := &MockUsers{}
		users.On("Create", ctx, mock.Anything).Return(nil, auth.ErrEmailTaken)

		_, _, err := newTestAuther(users).Register(ctx, "taken@test.com", "password123!")

		assert.ErrorIs(t, err, auth.ErrEmailTaken)
	})
}

func TestAuther_Login(t *testing.T) {
	ctx := context.Background()

	hash, err := auth.HashPassword("password123!")
	assert.NoError(t, err)

	t.Run("issues a token for valid credentials", func(t *testing.T) {
		users := &MockUsers{}
		users.On("GetByEmail", ctx, "user@test.com").
			Return(&auth.User{ID: 1, Email: "user@test.com", PasswordHash: hash, IsActive: true}, nil)

		token, err := newTestAuther(users).Login(ctx, "user@test.com", "password123!")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		users.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("reactivates an inactive account", func(t *testing.T) {
		users := &MockUsers{}
		users.On("GetByEmail", ctx, "user@test.com").
			Return(&auth.User{ID: 1, Email: "user@test.com", PasswordHash: hash, IsActive: false}, nil)
		users.On("SetActive", ctx, int64(1), true).Return(nil)

		token, err := newTestAuther(users).Login(ctx, "user@test.com", "password123!")

		assert.NoError(t, err)
		assert.NotEmpty(t, token)
		users.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		knownUsers := &MockUsers{}
		knownUsers.On("GetByEmail", ctx, "user@test.com").
			Return(&auth.User{ID: 1, Email: "user@test.com", PasswordHash: hash, IsActive: true}, nil)

		unknownUsers := &MockUsers{}
		unknownUsers.On("GetByEmail", ctx, "ghost@test.com").
			Return(nil, auth.NewRecordNotFound("email", "ghost@test.com"))

		_, wrongPassword := newTestAuther(knownUsers).Login(ctx, "user@test.com", "wrong-password")
		_, unknownEmail := newTestAuther(unknownUsers).Login(ctx, "ghost@test.com", "password123!")

		assert.ErrorIs(t, wrongPassword, auth.ErrMismatchedHashAndPassword)
		assert.ErrorIs(t, unknownEmail, auth.ErrMismatchedHashAndPassword)
		assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	})
}

func TestAuther_Logout(t *testing.T) {
	ctx := context.Background()

	t.Run("deactivates the account", func(t *testing.T) {
		users := &MockUsers{}
		users.On("SetActive", ctx, int64(1), false).Return(nil)

		err := newTestAuther(users).Logout(ctx, &auth.User{ID: 1, Email: "user@test.com", IsActive: true})

		assert.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("is idempotent for already inactive users", func(t *testing.T) {
		users := &MockUsers{}
		users.On("SetActive", ctx, int64(1), false).Return(nil)

		err := newTestAuther(users).Logout(ctx, &auth.User{ID: 1, Email: "user@test.com", IsActive: false})

		assert.NoError(t, err)
	})

	t.Run("rejects nil user", func(t *testing.T) {
		users := &MockUsers{}

		err := newTestAuther(users).Logout(ctx, nil)

		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})
}

func TestAuther_CurrentUser(t *testing.T) {
	ctx := context.Background()

	issueToken := func(t *testing.T, auther *auth.Auther, subject string) string {
		t.Helper()
		token, err := auther.TokenService().Generate(subject)
		assert.NoError(t, err)
		return token
	}

	t.Run("resolves a valid token to the live user", func(t *testing.T) {
		users := &MockUsers{}
		users.On("GetByEmail", ctx, "user@test.com").
			Return(&auth.User{ID: 1, Email: "user@test.com", IsActive: true}, nil)

		auther := newTestAuther(users)
		token := issueToken(t, auther, "user@test.com")

		user, err := auther.CurrentUser(ctx, token)

		assert.NoError(t, err)
		assert.Equal(t, "user@test.com", user.Email)
	})

	t.Run("collapses every token failure into unauthenticated", func(t *testing.T) {
		users := &MockUsers{}
		auther := newTestAuther(users)

		for name, raw := range map[string]string{
			"garbage":   "not.a.token",
			"empty":     "",
			"truncated": issueToken(t, auther, "user@test.com")[:20],
		} {
			t.Run(name, func(t *testing.T) {
				user, err := auther.CurrentUser(ctx, raw)

				assert.Nil(t, user)
				assert.ErrorIs(t, err, auth.ErrUnauthenticated)
			})
		}
	})

	t.Run("rejects a valid token whose subject no longer exists", func(t *testing.T) {
		users := &MockUsers{}
		users.On("GetByEmail", ctx, "ghost@test.com").
			Return(nil, auth.NewRecordNotFound("email", "ghost@test.com"))

		auther := newTestAuther(users)
		token := issueToken(t, auther, "ghost@test.com")

		user, err := auther.CurrentUser(ctx, token)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})

	t.Run("a valid unexpired token is insufficient once logged out", func(t *testing.T) {
		users := &MockUsers{}
		users.On("GetByEmail", ctx, "user@test.com").
			Return(&auth.User{ID: 1, Email: "user@test.com", IsActive: false}, nil)

		auther := newTestAuther(users)
		token := issueToken(t, auther, "user@test.com")

		// The token itself still validates
		claims, err := auther.TokenService().Validate(token)
		assert.NoError(t, err)
		assert.Equal(t, "user@test.com", claims.Subject())

		// But resolution is denied with a Forbidden class error
		user, err := auther.CurrentUser(ctx, token)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, auth.ErrInactiveUser)
		assert.True(t, auth.HasTextCode(err, "INACTIVE_USER"))
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		users := &MockUsers{}
		auther := newTestAuther(users)

		expired := auth.NewTokenService(
			[]byte(testConfig{}.GetSigningKey()), -time.Minute,
			testConfig{}.GetIssuer(), testConfig{}.GetAudience(), NoopLogger{},
		)
		token, err := expired.Generate("user@test.com")
		assert.NoError(t, err)

		user, err := auther.CurrentUser(ctx, token)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated)
	})
}
