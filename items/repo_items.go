package items

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Items is the store contract for the CRUD resource
type Items interface {
	List(ctx context.Context, skip, limit int) ([]*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	Create(ctx context.Context, record *Item) (*Item, error)
	Update(ctx context.Context, id int64, title, description string) (*Item, error)
	Delete(ctx context.Context, id int64) error
}

// ErrItemNotFound is returned for unknown item ids
var ErrItemNotFound = errors.New("Item not found", errors.CategoryNotFound).
	WithTextCode("ITEM_NOT_FOUND").
	WithCode(errors.CodeNotFound)

const defaultListLimit = 100

type repo struct {
	db *bun.DB
}

var _ Items = (*repo)(nil)

// NewItemsRepository returns a bun backed Items store
func NewItemsRepository(db *bun.DB) Items {
	return &repo{db: db}
}

func (r *repo) List(ctx context.Context, skip, limit int) ([]*Item, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	records := []*Item{}
	err := r.db.NewSelect().
		Model(&records).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list items")
	}

	return records, nil
}

func (r *repo) GetByID(ctx context.Context, id int64) (*Item, error) {
	record := &Item{}
	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to select item")
	}

	return record, nil
}

func (r *repo) Create(ctx context.Context, record *Item) (*Item, error) {
	if record.CreatedAt == nil {
		now := time.Now()
		record.CreatedAt = &now
	}

	if _, err := r.db.NewInsert().Model(record).Returning("*").Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create item")
	}

	return record, nil
}

func (r *repo) Update(ctx context.Context, id int64, title, description string) (*Item, error) {
	now := time.Now()
	res, err := r.db.NewUpdate().
		Model((*Item)(nil)).
		Set("title = ?", title).
		Set("description = ?", description).
		Set("updated_at = ?", now).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update item")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrItemNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.NewDelete().
		Model((*Item)(nil)).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete item")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrItemNotFound
	}

	return nil
}
