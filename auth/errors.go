package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryAuth).
	WithTextCode("IDENTITY_NOT_FOUND").
	WithCode(errors.CodeUnauthorized)

// ErrMismatchedHashAndPassword is returned for bad credentials. Unknown email
// and wrong password both surface this exact error so callers cannot probe
// which accounts exist.
var ErrMismatchedHashAndPassword = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString is returned when hashing an empty password
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_PASSWORD").
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is returned when a token's exp claim is in the past
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenInvalidSignature is returned when signature verification fails
var ErrTokenInvalidSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode("TOKEN_INVALID_SIGNATURE").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens we cannot parse, or whose claims
// are structurally broken (e.g. missing subject)
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrMissingOrMalformedToken is returned by the middleware when the request
// carries no usable bearer credential
var ErrMissingOrMalformedToken = errors.New("missing or malformed bearer token", errors.CategoryAuth).
	WithTextCode("TOKEN_MISSING").
	WithCode(errors.CodeUnauthorized)

// ErrInactiveUser is returned when a structurally valid token resolves to an
// account that has been logged out. Distinct from Unauthorized: the caller is
// identifiable but currently denied.
var ErrInactiveUser = errors.New("Inactive user", errors.CategoryAuthz).
	WithTextCode("INACTIVE_USER").
	WithCode(errors.CodeForbidden)

// ErrUnauthenticated is the single externally visible "not authenticated"
// outcome CurrentUser collapses all token failures into.
var ErrUnauthenticated = errors.New("Could not validate credentials", errors.CategoryAuth).
	WithTextCode("UNAUTHENTICATED").
	WithCode(errors.CodeUnauthorized)

// ErrEmailTaken is returned when registering an already registered email
var ErrEmailTaken = errors.New("email is already registered", errors.CategoryConflict).
	WithTextCode("EMAIL_TAKEN").
	WithCode(errors.CodeConflict)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed")
}

// HasTextCode reports whether err carries the given machine checkable code
func HasTextCode(err error, code string) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == code
}
