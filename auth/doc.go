// Package auth provides the authentication core for the users API: password
// hashing, JWT issuance and validation, the user store, and the fiber
// middleware and controller that expose them over HTTP.
//
// Identity model:
//   - Users carry an IsActive flag persisted via Bun. Registration creates
//     active accounts, logout flips the flag off, and a later login flips it
//     back on. Because CurrentUser re-reads the record on every request, a
//     logout invalidates every outstanding token for that account at once.
//   - Tokens are short-lived HS256 JWTs whose subject is the account email.
//     They carry no other identity data; the live record is always loaded
//     from the store.
//
// Error surface:
//   - Login returns the same ErrMismatchedHashAndPassword for an unknown
//     email and a wrong password, so responses cannot be used to probe which
//     accounts exist.
//   - CurrentUser collapses every token failure into ErrUnauthenticated and
//     reserves ErrInactiveUser for valid tokens on logged out accounts.
package auth
