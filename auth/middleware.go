package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// CurrentUserResolver resolves a raw bearer token to a live user record
// without tying the middleware to a concrete Authenticator.
type CurrentUserResolver interface {
	CurrentUser(ctx context.Context, token string) (*User, error)
}

// MiddlewareConfig configures the identity resolution middleware
type MiddlewareConfig struct {
	// Filter defines a function to skip the middleware
	Filter func(*fiber.Ctx) bool
	// ErrorHandler receives resolution failures. Defaults to propagating the
	// error to the application error handler.
	ErrorHandler fiber.ErrorHandler
	// ContextKey is the fiber locals key holding the resolved *User
	ContextKey string
	// AuthScheme expected in the Authorization header, defaults to Bearer
	AuthScheme string
	// Resolver is required
	Resolver CurrentUserResolver
}

// RequireAuth returns a middleware that extracts the bearer credential from
// the Authorization header, resolves it to a user, and attaches the record to
// both fiber locals and the request context. Failures short-circuit the
// request; the error handler surfaces the failure kind to the HTTP layer.
func RequireAuth(config ...MiddlewareConfig) fiber.Handler {
	cfg := middlewareDefaults(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := TokenFromHeader(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		user, err := cfg.Resolver.CurrentUser(c.UserContext(), raw)
		if err != nil {
			return cfg.ErrorHandler(c, err)
		}

		c.Locals(cfg.ContextKey, user)
		c.SetUserContext(WithContext(c.UserContext(), user))

		return c.Next()
	}
}

// TokenFromHeader extracts the raw token from an Authorization header value.
// The scheme is matched case-insensitively; anything not shaped like
// "<scheme> <token>" fails fast.
func TokenFromHeader(header, authScheme string) (string, error) {
	l := len(authScheme)
	if l == 0 {
		return "", ErrMissingOrMalformedToken
	}
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) {
		token := strings.TrimSpace(header[l:])
		if token != "" {
			return token, nil
		}
	}
	return "", ErrMissingOrMalformedToken
}

// UserFromLocals returns the resolved user stored by RequireAuth
func UserFromLocals(c *fiber.Ctx, key string) (*User, bool) {
	if key == "" {
		key = "user"
	}
	user, ok := c.Locals(key).(*User)
	return user, ok
}

func middlewareDefaults(config ...MiddlewareConfig) MiddlewareConfig {
	var cfg MiddlewareConfig
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Resolver == nil {
		panic("AUTH: middleware configuration: Resolver is required.")
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			return err
		}
	}

	return cfg
}
