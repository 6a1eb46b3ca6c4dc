package auth

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// User is the user model. Emails are stored lowercased so the unique index
// enforces case-insensitive uniqueness. Records are never physically deleted;
// logout only flips IsActive.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	IsActive      bool       `bun:"is_active,notnull,default:false" json:"is_active"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

// NormalizeEmail canonicalizes an email for storage and lookups
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
