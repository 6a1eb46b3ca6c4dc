package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// MinPasswordLength is the registration policy for password size
const MinPasswordLength = 6

// Auther implements Authenticator on top of a Users store and a TokenService.
// Per-user session state is not held in memory: it lives in User.IsActive and
// is reconstructed from the store on every call, so logout takes effect
// immediately for every outstanding token.
type Auther struct {
	users        Users
	tokenService TokenService
	passwords    PasswordAuthenticator
	logger       Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users Users, cfg Config) *Auther {
	tokenService := NewTokenService(
		[]byte(cfg.GetSigningKey()),
		cfg.GetTokenTTL(),
		cfg.GetIssuer(),
		cfg.GetAudience(),
		defLogger{},
	)

	return &Auther{
		users:        users,
		tokenService: tokenService,
		passwords:    BcryptPasswords{},
		logger:       defLogger{},
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenService overrides the default token service
func (s *Auther) WithTokenService(ts TokenService) *Auther {
	if ts != nil {
		s.tokenService = ts
	}
	return s
}

// WithPasswordAuthenticator overrides the default bcrypt hasher
func (s *Auther) WithPasswordAuthenticator(pa PasswordAuthenticator) *Auther {
	if pa != nil {
		s.passwords = pa
	}
	return s
}

// TokenService returns the TokenService instance used by this Authenticator
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

// Register creates a new active account and issues its first token
func (s *Auther) Register(ctx context.Context, email, password string) (*User, string, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, "", err
	}

	if len(password) < MinPasswordLength {
		return nil, "", errors.New("password must be at least 6 characters", errors.CategoryValidation).
			WithTextCode("PASSWORD_TOO_SHORT").
			WithCode(errors.CodeBadRequest)
	}

	hash, err := s.passwords.HashPassword(password)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.CategoryInternal, "failed to hash password")
	}

	user, err := s.users.Create(ctx, &User{
		Email:        email,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil {
		s.logger.Error("Register create user error", "email", NormalizeEmail(email), "error", err)
		return nil, "", err
	}

	token, err := s.tokenService.Generate(user.Email)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("Registered user", "user_id", user.ID)

	return user, token, nil
}

// Login verifies credentials and issues a fresh token. A login on an
// inactive account reactivates it.
func (s *Auther) Login(ctx context.Context, email, password string) (string, error) {
	if err := validateCredentials(email, password); err != nil {
		return "", err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if IsRecordNotFound(err) {
			// Same error as a bad password: no account enumeration.
			return "", ErrMismatchedHashAndPassword
		}
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := s.passwords.ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Warn("Login password mismatch", "user_id", user.ID)
		return "", ErrMismatchedHashAndPassword
	}

	if !user.IsActive {
		if err := s.users.SetActive(ctx, user.ID, true); err != nil {
			return "", err
		}
		s.logger.Info("Login reactivated user", "user_id", user.ID)
	}

	return s.tokenService.Generate(user.Email)
}

// Logout deactivates the account. Idempotent: logging out an already
// inactive user succeeds silently.
func (s *Auther) Logout(ctx context.Context, user *User) error {
	if user == nil {
		return ErrIdentityNotFound
	}

	if err := s.users.SetActive(ctx, user.ID, false); err != nil {
		s.logger.Error("Logout set active error", "user_id", user.ID, "error", err)
		return err
	}

	return nil
}

// CurrentUser resolves a raw bearer token to the live account record. Any
// token failure collapses into a single Unauthorized outcome; the sub-case
// (expired, tampered, malformed) is only logged. A valid unexpired token is
// still insufficient once the account has been logged out.
func (s *Auther) CurrentUser(ctx context.Context, raw string) (*User, error) {
	claims, err := s.tokenService.Validate(raw)
	if err != nil {
		s.logger.Debug("CurrentUser token rejected", "error", err)
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject())
	if err != nil {
		if IsRecordNotFound(err) {
			s.logger.Debug("CurrentUser unknown subject", "subject", claims.Subject())
			return nil, ErrUnauthenticated
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to resolve current user")
	}

	if !user.IsActive {
		return nil, ErrInactiveUser
	}

	return user, nil
}

func validateCredentials(email, password string) error {
	if email == "" {
		return errors.New("email is required", errors.CategoryValidation).
			WithTextCode("EMAIL_REQUIRED").
			WithCode(errors.CodeBadRequest)
	}
	if password == "" {
		return errors.New("password is required", errors.CategoryValidation).
			WithTextCode("PASSWORD_REQUIRED").
			WithCode(errors.CodeBadRequest)
	}
	return nil
}

var _ Authenticator = (*Auther)(nil)
