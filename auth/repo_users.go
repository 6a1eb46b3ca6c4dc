package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns a bun backed Users store. Every operation is a
// single statement; the database serializes concurrent mutations.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewRecordNotFound("email", email)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to select user by email")
	}

	return record, nil
}

func (a *users) GetByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewRecordNotFound("id", id)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to select user by id")
	}

	return record, nil
}

func (a *users) Create(ctx context.Context, record *User) (*User, error) {
	record.Email = NormalizeEmail(record.Email)
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}

	_, err := a.db.NewInsert().Model(record).Returning("*").Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create user")
	}

	return record, nil
}

func (a *users) SetActive(ctx context.Context, id int64, active bool) error {
	now := time.Now()
	res, err := a.db.NewUpdate().
		Model((*User)(nil)).
		Set("is_active = ?", active).
		Set("updated_at = ?", now).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to update user active flag")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return NewRecordNotFound("id", id)
	}

	return nil
}

// NewRecordNotFound builds the store level miss error for a single column lookup
func NewRecordNotFound(column string, value any) *errors.Error {
	return errors.New("record not found", errors.CategoryNotFound).
		WithTextCode("RECORD_NOT_FOUND").
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{
			column: value,
		})
}

// IsRecordNotFound reports whether err is a store level miss
func IsRecordNotFound(err error) bool {
	return HasTextCode(err, "RECORD_NOT_FOUND")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	// sqlite and postgres phrase constraint violations differently
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
