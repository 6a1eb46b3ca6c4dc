package items

import (
	"time"

	"github.com/uptrace/bun"
)

// Item is a user facing content record
type Item struct {
	bun.BaseModel `bun:"table:items,alias:itm"`
	ID            int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title"`
	Description   string     `bun:"description" json:"description,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}
